package db

import (
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
	"github.com/dmitriyshad-AI/astro-bot/internal/utils"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// New opens the relational store. SQLite is the default (matching the bot's
// single-node deployment); Postgres is selected with DB_DRIVER=postgres.
func New(logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "DBService")

	gormLog := gormLogger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	cfg := &gorm.Config{Logger: gormLog}

	driver := utils.GetEnv("DB_DRIVER", "sqlite", logg)
	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			utils.GetEnv("POSTGRES_USER", "postgres", logg),
			utils.GetEnv("POSTGRES_PASSWORD", "", logg),
			utils.GetEnv("POSTGRES_HOST", "localhost", logg),
			utils.GetEnv("POSTGRES_PORT", "5432", logg),
			utils.GetEnv("POSTGRES_NAME", "astrobot", logg),
		)
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	default:
		path := utils.GetEnv("SQLITE_PATH", "data/astro_bot.db", logg)
		if dir := filepath.Dir(path); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", mkErr)
			}
		}
		db, err = gorm.Open(sqlite.Open(path), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	serviceLog.Info("Database connected", "driver", driver)
	return &Service{db: db, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) AutoMigrateAll() error {
	return s.db.AutoMigrate(
		&domain.User{},
		&domain.LocationCache{},
		&domain.Profile{},
		&domain.Chart{},
		&domain.CompatibilityRun{},
		&domain.ChatMessage{},
	)
}
