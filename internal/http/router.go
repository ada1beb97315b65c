package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/dmitriyshad-AI/astro-bot/internal/http/handlers"
	httpMW "github.com/dmitriyshad-AI/astro-bot/internal/http/middleware"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Mode           string
	ServiceName    string
	AllowedOrigins string
	WebAppDir      string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler        *httpH.HealthHandler
	AuthHandler          *httpH.AuthHandler
	GeoHandler           *httpH.GeoHandler
	NatalHandler         *httpH.NatalHandler
	CompatibilityHandler *httpH.CompatibilityHandler
	InsightsHandler      *httpH.InsightsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode == "prod" || cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/health", cfg.HealthHandler.HealthCheck)
		}
		if cfg.AuthHandler != nil {
			api.POST("/auth/whoami", cfg.AuthHandler.Whoami)
		}
	}

	// The bot works for anonymous WebApp sessions too; auth only attaches
	// ownership to computed charts when a token is present.
	open := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			open.Use(cfg.AuthMiddleware.OptionalAuth())
		}

		if cfg.GeoHandler != nil {
			open.GET("/geo/search", cfg.GeoHandler.Search)
		}

		if cfg.NatalHandler != nil {
			open.POST("/natal/calc", cfg.NatalHandler.Calc)
			open.GET("/natal/:id", cfg.NatalHandler.Get)
			open.GET("/natal/:id/wheel.png", cfg.NatalHandler.Wheel)
			open.GET("/charts/recent", cfg.NatalHandler.Recent)
		}

		if cfg.CompatibilityHandler != nil {
			open.POST("/compatibility/calc", cfg.CompatibilityHandler.Calc)
			open.GET("/compatibility/:id", cfg.CompatibilityHandler.Get)
			open.GET("/compatibility/:id/wheel.png", cfg.CompatibilityHandler.Wheel)
		}

		if cfg.InsightsHandler != nil {
			open.GET("/insights/:id", cfg.InsightsHandler.Get)
			open.GET("/insights/:id/history", cfg.InsightsHandler.History)
			open.POST("/ask", cfg.InsightsHandler.Ask)
		}
	}

	// Static WebApp bundle, when deployed alongside the API.
	if cfg.WebAppDir != "" {
		r.Static("/webapp", cfg.WebAppDir)
	}

	return r
}
