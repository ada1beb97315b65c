package app

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/dmitriyshad-AI/astro-bot/internal/data/db"
	apphttp "github.com/dmitriyshad-AI/astro-bot/internal/http"
	"github.com/dmitriyshad-AI/astro-bot/internal/observability"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Server   *apphttp.Server

	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "astro-bot",
		Environment: cfg.Mode,
	})

	dbs, err := db.New(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbs.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := dbs.DB()

	clientset, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init clients: %w", err)
	}
	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(log, cfg, clientset, reposet)
	if err != nil {
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, serviceset)
	authMW := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, handlerset, authMW)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clientset,
		Services:     serviceset,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	a.Log.Info("Starting HTTP server", "addr", a.Cfg.HTTPAddr)
	return a.Server.Run(a.Cfg.HTTPAddr)
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)
	if a.otelShutdown != nil {
		if otErr := a.otelShutdown(ctx); otErr != nil && err == nil {
			err = otErr
		}
	}
	a.Log.Sync()
	return err
}
