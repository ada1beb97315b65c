package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitriyshad-AI/astro-bot/internal/astro"
	"github.com/dmitriyshad-AI/astro-bot/internal/clients/astroengine"
	"github.com/dmitriyshad-AI/astro-bot/internal/data/repos"
	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/dbctx"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

type CompatibilityPerson struct {
	Name      string
	BirthDate string
	BirthTime string
	Place     string
}

type ComputeCompatibilityInput struct {
	TelegramUserID *int64
	Self           CompatibilityPerson
	Partner        CompatibilityPerson
}

type CompatibilityResult struct {
	RunID      uuid.UUID                 `json:"run_id"`
	Score      *domain.RelationshipScore `json:"score,omitempty"`
	TopAspects []domain.Aspect           `json:"top_aspects"`
	KeyAspects []domain.Aspect           `json:"key_aspects"`
	WheelPath  string                    `json:"wheel_path"`
	Synastry   domain.SynastryData       `json:"synastry"`
}

// CompatibilityService computes pair synastry. Unlike natal charts, runs are
// never deduplicated: each request produces a fresh run record.
type CompatibilityService interface {
	Compute(ctx context.Context, input ComputeCompatibilityInput) (*CompatibilityResult, error)
	GetRun(ctx context.Context, id uuid.UUID) (*domain.CompatibilityRun, error)
}

type compatibilityService struct {
	log         *logger.Logger
	engine      astroengine.Engine
	engineMu    *sync.Mutex
	location    LocationService
	artifacts   ArtifactService
	profileRepo repos.ProfileRepo
	compatRepo  repos.CompatibilityRepo
	cleanupDays int
}

func NewCompatibilityService(
	log *logger.Logger,
	engine astroengine.Engine,
	engineMu *sync.Mutex,
	location LocationService,
	artifacts ArtifactService,
	profileRepo repos.ProfileRepo,
	compatRepo repos.CompatibilityRepo,
	cleanupDays int,
) CompatibilityService {
	if cleanupDays <= 0 {
		cleanupDays = DefaultCleanupDays
	}
	return &compatibilityService{
		log:         log.With("service", "CompatibilityService"),
		engine:      engine,
		engineMu:    engineMu,
		location:    location,
		artifacts:   artifacts,
		profileRepo: profileRepo,
		compatRepo:  compatRepo,
		cleanupDays: cleanupDays,
	}
}

// storedAspects is the shape persisted in a run's top_aspects column: both the
// ranked top list and the key sub-list, so stored runs can serve key aspects
// without recomputing.
type storedAspects struct {
	Top []domain.Aspect `json:"top"`
	Key []domain.Aspect `json:"key"`
}

type resolvedPerson struct {
	birthDate time.Time
	birthTime *time.Time
	loc       domain.Location
	subject   astroengine.SubjectRequest
}

func (s *compatibilityService) resolvePerson(ctx context.Context, p CompatibilityPerson) (*resolvedPerson, error) {
	birthDate, err := astro.ParseBirthDate(p.BirthDate)
	if err != nil {
		return nil, err
	}
	birthTime, err := astro.ParseBirthTime(p.BirthTime)
	if err != nil {
		return nil, err
	}
	loc, err := s.location.Resolve(ctx, p.Place)
	if err != nil {
		return nil, err
	}
	hour, minute := astro.ClockOrNoon(birthTime)
	return &resolvedPerson{
		birthDate: birthDate,
		birthTime: birthTime,
		loc:       *loc,
		subject: astroengine.SubjectRequest{
			Name:         p.Name,
			Year:         birthDate.Year(),
			Month:        int(birthDate.Month()),
			Day:          birthDate.Day(),
			Hour:         hour,
			Minute:       minute,
			Lat:          loc.Lat,
			Lng:          loc.Lng,
			TzStr:        loc.TzStr,
			HousesSystem: astro.HouseSystem,
			ActivePoints: astro.ActivePoints,
		},
	}, nil
}

func (s *compatibilityService) Compute(ctx context.Context, input ComputeCompatibilityInput) (*CompatibilityResult, error) {
	self, err := s.resolvePerson(ctx, input.Self)
	if err != nil {
		return nil, err
	}
	partner, err := s.resolvePerson(ctx, input.Partner)
	if err != nil {
		return nil, err
	}

	s.artifacts.Cleanup(s.cleanupDays)

	s.engineMu.Lock()
	syn, err := s.engine.ComputeSynastry(ctx, self.subject, partner.subject)
	if err != nil {
		s.engineMu.Unlock()
		return nil, err
	}
	wheelPath, err := s.artifacts.RenderSynastry(syn, fmt.Sprintf("synastry_%s_%s_%d",
		input.Self.Name, input.Partner.Name, time.Now().UnixNano()))
	s.engineMu.Unlock()
	if err != nil {
		return nil, err
	}

	top, key := astro.TopAndKeyAspects(syn.Aspects)

	selfProfile := profileFromPerson(input.TelegramUserID, input.Self.Name, self)
	if err := s.profileRepo.Create(dbctx.From(ctx), selfProfile); err != nil {
		return nil, err
	}
	partnerProfile := profileFromPerson(nil, input.Partner.Name, partner)
	if err := s.profileRepo.Create(dbctx.From(ctx), partnerProfile); err != nil {
		return nil, err
	}

	synJSON, err := json.Marshal(syn)
	if err != nil {
		return nil, fmt.Errorf("marshal synastry: %w", err)
	}
	var scoreJSON []byte
	if syn.RelationshipScore != nil {
		if scoreJSON, err = json.Marshal(syn.RelationshipScore); err != nil {
			return nil, fmt.Errorf("marshal relationship score: %w", err)
		}
	}
	aspectsJSON, err := json.Marshal(storedAspects{Top: top, Key: key})
	if err != nil {
		return nil, fmt.Errorf("marshal aspect lists: %w", err)
	}

	run := &domain.CompatibilityRun{
		TelegramUserID: input.TelegramUserID,
		SelfProfileID:  &selfProfile.ID,
		PartnerProfID:  &partnerProfile.ID,
		Synastry:       synJSON,
		Score:          scoreJSON,
		TopAspects:     aspectsJSON,
		WheelPath:      wheelPath,
	}
	if err := s.compatRepo.Create(dbctx.From(ctx), run); err != nil {
		return nil, err
	}

	return &CompatibilityResult{
		RunID:      run.ID,
		Score:      syn.RelationshipScore,
		TopAspects: top,
		KeyAspects: key,
		WheelPath:  wheelPath,
		Synastry:   *syn,
	}, nil
}

func (s *compatibilityService) GetRun(ctx context.Context, id uuid.UUID) (*domain.CompatibilityRun, error) {
	run, err := s.compatRepo.GetByID(dbctx.From(ctx), id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, apperr.New(apperr.CodeNotFound, "compatibility run not found")
	}
	return run, nil
}

func profileFromPerson(ownerID *int64, label string, p *resolvedPerson) *domain.Profile {
	fp := astro.Fingerprint(ownerID, p.birthDate, p.birthTime, p.loc.Query, p.loc)
	return &domain.Profile{
		TelegramUserID: fp.TelegramUserID,
		Label:          &label,
		BirthDate:      fp.BirthDate,
		BirthTime:      fp.BirthTime,
		TimeUnknown:    fp.TimeUnknown,
		PlaceQuery:     fp.PlaceQuery,
		Lat:            fp.Lat,
		Lng:            fp.Lng,
		TzStr:          fp.TzStr,
	}
}
