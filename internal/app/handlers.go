package app

import (
	httpH "github.com/dmitriyshad-AI/astro-bot/internal/http/handlers"
	httpMW "github.com/dmitriyshad-AI/astro-bot/internal/http/middleware"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

type Handlers struct {
	Health        *httpH.HealthHandler
	Auth          *httpH.AuthHandler
	Geo           *httpH.GeoHandler
	Natal         *httpH.NatalHandler
	Compatibility *httpH.CompatibilityHandler
	Insights      *httpH.InsightsHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:        httpH.NewHealthHandler(),
		Auth:          httpH.NewAuthHandler(log, serviceset.Auth),
		Geo:           httpH.NewGeoHandler(log, serviceset.Location),
		Natal:         httpH.NewNatalHandler(log, serviceset.Natal),
		Compatibility: httpH.NewCompatibilityHandler(log, serviceset.Compatibility),
		Insights:      httpH.NewInsightsHandler(log, serviceset.Insights),
	}
}

func wireMiddleware(log *logger.Logger, serviceset Services) *httpMW.AuthMiddleware {
	return httpMW.NewAuthMiddleware(log, serviceset.Auth)
}
