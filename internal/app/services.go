package app

import (
	"sync"

	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
	"github.com/dmitriyshad-AI/astro-bot/internal/render"
	"github.com/dmitriyshad-AI/astro-bot/internal/services"
)

type Services struct {
	Auth          services.AuthService
	Location      services.LocationService
	Artifacts     services.ArtifactService
	Natal         services.NatalService
	Compatibility services.CompatibilityService
	Insights      services.InsightsService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	wheel := render.NewWheel(log)
	artifacts, err := services.NewArtifactService(log, wheel)
	if err != nil {
		return Services{}, err
	}

	location := services.NewLocationService(log, reposet.Location, clients.Geocoder, clients.Timezone)

	// One lock for every engine call in the process; the engine holds global
	// ephemeris state and must never run two computations at once.
	engineMu := &sync.Mutex{}

	natal := services.NewNatalService(log, clients.Engine, engineMu, location, artifacts,
		reposet.Profile, reposet.Chart, clients.LLM, cfg.ArtifactMaxAgeDays)
	compat := services.NewCompatibilityService(log, clients.Engine, engineMu, location, artifacts,
		reposet.Profile, reposet.Compatibility, cfg.ArtifactMaxAgeDays)
	insights := services.NewInsightsService(log, reposet.Chart, reposet.ChatMessage, clients.LLM)
	auth := services.NewAuthService(log, reposet.User, cfg.BotToken, cfg.JWTSecretKey,
		cfg.InitDataMaxAge, cfg.SessionTTL)

	return Services{
		Auth:          auth,
		Location:      location,
		Artifacts:     artifacts,
		Natal:         natal,
		Compatibility: compat,
		Insights:      insights,
	}, nil
}
