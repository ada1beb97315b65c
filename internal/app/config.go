package app

import (
	"time"

	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
	"github.com/dmitriyshad-AI/astro-bot/internal/utils"
)

type Config struct {
	Mode           string
	HTTPAddr       string
	AllowedOrigins string
	WebAppDir      string

	BotToken       string
	JWTSecretKey   string
	InitDataMaxAge time.Duration
	SessionTTL     time.Duration

	ArtifactMaxAgeDays int
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Mode:           utils.GetEnv("APP_MODE", "development", log),
		HTTPAddr:       utils.GetEnv("HTTP_ADDR", ":8080", log),
		AllowedOrigins: utils.GetEnv("ALLOWED_ORIGINS", "", log),
		WebAppDir:      utils.GetEnv("WEBAPP_DIR", "", log),

		BotToken:       utils.GetEnv("TELEGRAM_BOT_TOKEN", "", log),
		JWTSecretKey:   utils.GetEnv("JWT_SECRET_KEY", "", log),
		InitDataMaxAge: time.Duration(utils.GetEnvAsInt("INIT_DATA_MAX_AGE", 86400, log)) * time.Second,
		SessionTTL:     time.Duration(utils.GetEnvAsInt("SESSION_TTL", 86400, log)) * time.Second,

		ArtifactMaxAgeDays: utils.GetEnvAsInt("ARTIFACT_MAX_AGE_DAYS", 7, log),
	}
}
