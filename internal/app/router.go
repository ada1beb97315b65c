package app

import (
	apphttp "github.com/dmitriyshad-AI/astro-bot/internal/http"
	httpMW "github.com/dmitriyshad-AI/astro-bot/internal/http/middleware"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlerset Handlers, authMW *httpMW.AuthMiddleware) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:            log,
		Mode:           cfg.Mode,
		ServiceName:    "astro-bot",
		AllowedOrigins: cfg.AllowedOrigins,
		WebAppDir:      cfg.WebAppDir,

		AuthMiddleware: authMW,

		HealthHandler:        handlerset.Health,
		AuthHandler:          handlerset.Auth,
		GeoHandler:           handlerset.Geo,
		NatalHandler:         handlerset.Natal,
		CompatibilityHandler: handlerset.Compatibility,
		InsightsHandler:      handlerset.Insights,
	})
}
