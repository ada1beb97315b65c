package services

import (
	"context"
	"strings"

	"github.com/dmitriyshad-AI/astro-bot/internal/clients/geocode"
	"github.com/dmitriyshad-AI/astro-bot/internal/clients/timezone"
	"github.com/dmitriyshad-AI/astro-bot/internal/data/repos"
	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/dbctx"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

// LocationService resolves free-text place queries to coordinates plus an
// IANA timezone, backed by the persistent cache. A cached entry is immutable
// truth for its query string: a hit never goes to the network.
type LocationService interface {
	Resolve(ctx context.Context, query string) (*domain.Location, error)
}

type locationService struct {
	log          *logger.Logger
	locationRepo repos.LocationRepo
	geocoder     geocode.Client
	tzLookup     timezone.Lookup
}

func NewLocationService(log *logger.Logger, locationRepo repos.LocationRepo, geocoder geocode.Client, tzLookup timezone.Lookup) LocationService {
	return &locationService{
		log:          log.With("service", "LocationService"),
		locationRepo: locationRepo,
		geocoder:     geocoder,
		tzLookup:     tzLookup,
	}
}

func (s *locationService) Resolve(ctx context.Context, query string) (*domain.Location, error) {
	normQuery := strings.TrimSpace(query)
	if normQuery == "" {
		return nil, apperr.New(apperr.CodeEmptyPlace, "birth place is not set")
	}

	cached, err := s.locationRepo.Get(dbctx.From(ctx), normQuery)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		display := cached.DisplayName
		if display == "" {
			display = normQuery
		}
		return &domain.Location{
			Query:       normQuery,
			DisplayName: display,
			Lat:         cached.Lat,
			Lng:         cached.Lng,
			TzStr:       cached.TzStr,
		}, nil
	}

	hit, err := s.geocoder.Search(ctx, normQuery)
	if err != nil {
		return nil, err
	}
	tzStr, err := s.tzLookup.TimezoneAt(hit.Lat, hit.Lng)
	if err != nil {
		return nil, err
	}

	loc := &domain.Location{
		Query:       normQuery,
		DisplayName: hit.DisplayName,
		Lat:         hit.Lat,
		Lng:         hit.Lng,
		TzStr:       tzStr,
	}
	// Concurrent resolvers of the same query race benignly here: the upsert is
	// a single atomic write, last one wins.
	if err := s.locationRepo.Upsert(dbctx.From(ctx), &domain.LocationCache{
		Query:       normQuery,
		DisplayName: loc.DisplayName,
		Lat:         loc.Lat,
		Lng:         loc.Lng,
		TzStr:       loc.TzStr,
	}); err != nil {
		return nil, err
	}
	return loc, nil
}
