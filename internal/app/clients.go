package app

import (
	"github.com/dmitriyshad-AI/astro-bot/internal/clients/astroengine"
	"github.com/dmitriyshad-AI/astro-bot/internal/clients/geocode"
	"github.com/dmitriyshad-AI/astro-bot/internal/clients/openai"
	"github.com/dmitriyshad-AI/astro-bot/internal/clients/timezone"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

type Clients struct {
	Geocoder geocode.Client
	Timezone timezone.Lookup
	Engine   astroengine.Engine
	LLM      openai.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")
	tz, err := timezone.NewLookup(log)
	if err != nil {
		return Clients{}, err
	}
	return Clients{
		Geocoder: geocode.NewClient(log),
		Timezone: tz,
		Engine:   astroengine.NewClient(log),
		LLM:      openai.NewClient(log),
	}, nil
}
