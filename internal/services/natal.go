package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dmitriyshad-AI/astro-bot/internal/astro"
	"github.com/dmitriyshad-AI/astro-bot/internal/clients/astroengine"
	"github.com/dmitriyshad-AI/astro-bot/internal/clients/openai"
	"github.com/dmitriyshad-AI/astro-bot/internal/data/repos"
	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/dbctx"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

type ComputeNatalInput struct {
	TelegramUserID *int64
	Label          *string
	SubjectName    string
	BirthDate      string
	BirthTime      string
	Place          string
}

type NatalResult struct {
	ChartID    uuid.UUID           `json:"chart_id"`
	ProfileID  uuid.UUID           `json:"profile_id"`
	Summary    string              `json:"summary"`
	LLMSummary *string             `json:"llm_summary,omitempty"`
	WheelPath  string              `json:"wheel_path"`
	Payload    domain.ChartPayload `json:"chart"`
	Location   domain.Location     `json:"location"`
	Reused     bool                `json:"reused"`
}

// NatalService is the single-subject computation coordinator. It owns the
// decision of when a Profile/Chart is created: an existing profile with an
// identical fingerprint short-circuits to its latest chart without touching
// the engine, and concurrent identical requests share one in-flight
// computation through the per-fingerprint single-flight group.
type NatalService interface {
	Compute(ctx context.Context, input ComputeNatalInput) (*NatalResult, error)
	GetChart(ctx context.Context, id uuid.UUID) (*domain.Chart, error)
	RecentCharts(ctx context.Context, limit int) ([]RecentChart, error)
}

// RecentChart is the compact listing shape for the quick-reopen picker.
type RecentChart struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Summary   *string   `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	BirthDate *string   `json:"birth_date"`
	BirthTime *string   `json:"birth_time"`
	Place     *string   `json:"place"`
}

type natalService struct {
	log         *logger.Logger
	engine      astroengine.Engine
	engineMu    *sync.Mutex
	flight      singleflight.Group
	location    LocationService
	artifacts   ArtifactService
	profileRepo repos.ProfileRepo
	chartRepo   repos.ChartRepo
	llm         openai.Client
	cleanupDays int
}

// NewNatalService takes the process-wide engine lock shared with the
// compatibility service; every engine call in the process goes through it.
func NewNatalService(
	log *logger.Logger,
	engine astroengine.Engine,
	engineMu *sync.Mutex,
	location LocationService,
	artifacts ArtifactService,
	profileRepo repos.ProfileRepo,
	chartRepo repos.ChartRepo,
	llm openai.Client,
	cleanupDays int,
) NatalService {
	if cleanupDays <= 0 {
		cleanupDays = DefaultCleanupDays
	}
	return &natalService{
		log:         log.With("service", "NatalService"),
		engine:      engine,
		engineMu:    engineMu,
		location:    location,
		artifacts:   artifacts,
		profileRepo: profileRepo,
		chartRepo:   chartRepo,
		llm:         llm,
		cleanupDays: cleanupDays,
	}
}

func (s *natalService) Compute(ctx context.Context, input ComputeNatalInput) (*NatalResult, error) {
	birthDate, err := astro.ParseBirthDate(input.BirthDate)
	if err != nil {
		return nil, err
	}
	birthTime, err := astro.ParseBirthTime(input.BirthTime)
	if err != nil {
		return nil, err
	}
	loc, err := s.location.Resolve(ctx, input.Place)
	if err != nil {
		return nil, err
	}

	fp := astro.Fingerprint(input.TelegramUserID, birthDate, birthTime, input.Place, *loc)
	key := astro.FingerprintKey(fp)

	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		return s.computeLocked(ctx, input, fp, birthDate, birthTime, *loc)
	})
	if err != nil {
		return nil, err
	}
	return v.(*NatalResult), nil
}

// computeLocked runs inside the single-flight slot for one fingerprint.
func (s *natalService) computeLocked(
	ctx context.Context,
	input ComputeNatalInput,
	fp repos.ProfileFingerprint,
	birthDate time.Time,
	birthTime *time.Time,
	loc domain.Location,
) (*NatalResult, error) {
	// Dedup fast path: identical fingerprint, reuse the latest chart.
	existing, err := s.profileRepo.FindByFingerprint(dbctx.From(ctx), fp)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		chart, err := s.chartRepo.LatestForProfile(dbctx.From(ctx), existing.ID)
		if err != nil {
			return nil, err
		}
		if chart != nil {
			return s.resultFromChart(existing, chart, loc)
		}
	}

	s.artifacts.Cleanup(s.cleanupDays)

	hour, minute := astro.ClockOrNoon(birthTime)
	subject := astroengine.SubjectRequest{
		Name:         input.SubjectName,
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
	}

	// The engine is not reentrant-safe: hold the lock only for the engine
	// call and the artifact render derived from its output.
	s.engineMu.Lock()
	data, err := s.engine.ComputeNatal(ctx, subject)
	if err != nil {
		s.engineMu.Unlock()
		return nil, err
	}
	wheelPath, err := s.artifacts.RenderNatal(data, fmt.Sprintf("natal_%s_%d", input.SubjectName, int64(data.JulianDay*1e4)))
	s.engineMu.Unlock()
	if err != nil {
		return nil, err
	}

	summary := astro.BuildSummary(*data, loc, birthDate, birthTime)
	payload := astro.BuildPayload(*data, loc, birthDate, birthTime)
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chart payload: %w", err)
	}

	llmSummary := s.elaborate(ctx, payloadJSON)

	profile := &domain.Profile{
		TelegramUserID: fp.TelegramUserID,
		Label:          input.Label,
		BirthDate:      fp.BirthDate,
		BirthTime:      fp.BirthTime,
		TimeUnknown:    fp.TimeUnknown,
		PlaceQuery:     fp.PlaceQuery,
		Lat:            fp.Lat,
		Lng:            fp.Lng,
		TzStr:          fp.TzStr,
	}
	if err := s.profileRepo.Create(dbctx.From(ctx), profile); err != nil {
		return nil, err
	}

	// The wheel file already exists on disk; a crash before this insert
	// leaves an orphaned artifact for cleanup to sweep, never a chart record
	// pointing at nothing.
	chart := &domain.Chart{
		ProfileID:  profile.ID,
		Payload:    payloadJSON,
		WheelPath:  wheelPath,
		Summary:    summary,
		LLMSummary: llmSummary,
	}
	if err := s.chartRepo.Create(dbctx.From(ctx), chart); err != nil {
		return nil, err
	}

	return &NatalResult{
		ChartID:    chart.ID,
		ProfileID:  profile.ID,
		Summary:    summary,
		LLMSummary: llmSummary,
		WheelPath:  wheelPath,
		Payload:    payload,
		Location:   loc,
	}, nil
}

// elaborate asks the language model for a beginner-friendly reading.
// Best-effort: any failure is logged and degrades to "no LLM summary".
func (s *natalService) elaborate(ctx context.Context, payloadJSON []byte) *string {
	if s.llm == nil || !s.llm.Configured() {
		return nil
	}
	contextText := astro.BuildContext(payloadJSON)
	if contextText == "" {
		return nil
	}
	prompt := "Ты профессиональный астролог. Объясни натальную карту простым языком для новичка. " +
		"Сделай 5–7 коротких пунктов: основные черты, сильные стороны, зоны роста. " +
		"Избегай жаргона, не пиши градусы/аспекты. Каждый пункт закончи строкой 'Основано на: ...' " +
		"со ссылкой на факт (Солнце в X, Луна в Y, дом, аспект). " +
		"Используй только факты из контекста ниже.\n\n" + contextText
	answer, err := s.llm.Ask(ctx, prompt, "астролог")
	if err != nil {
		s.log.Warn("llm summary generation failed, continuing without it", "error", err)
		return nil
	}
	return &answer
}

func (s *natalService) resultFromChart(profile *domain.Profile, chart *domain.Chart, loc domain.Location) (*NatalResult, error) {
	var payload domain.ChartPayload
	if err := json.Unmarshal(chart.Payload, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal stored chart payload: %w", err)
	}
	return &NatalResult{
		ChartID:    chart.ID,
		ProfileID:  profile.ID,
		Summary:    chart.Summary,
		LLMSummary: chart.LLMSummary,
		WheelPath:  chart.WheelPath,
		Payload:    payload,
		Location:   loc,
		Reused:     true,
	}, nil
}

func (s *natalService) GetChart(ctx context.Context, id uuid.UUID) (*domain.Chart, error) {
	chart, err := s.chartRepo.GetByID(dbctx.From(ctx), id)
	if err != nil {
		return nil, err
	}
	if chart == nil {
		return nil, apperr.New(apperr.CodeNotFound, "chart not found")
	}
	return chart, nil
}

func (s *natalService) RecentCharts(ctx context.Context, limit int) ([]RecentChart, error) {
	if limit < 1 || limit > 10 {
		limit = 3
	}
	charts, err := s.chartRepo.ListRecent(dbctx.From(ctx), limit)
	if err != nil {
		return nil, err
	}
	out := make([]RecentChart, 0, len(charts))
	for _, chart := range charts {
		item := RecentChart{ID: chart.ID, ProfileID: chart.ProfileID, CreatedAt: chart.CreatedAt}
		if chart.Summary != "" {
			line := chart.Summary
			if i := strings.IndexByte(line, '\n'); i >= 0 {
				line = line[:i]
			}
			if r := []rune(line); len(r) > 120 {
				line = string(r[:120])
			}
			item.Summary = &line
		}
		var payload domain.ChartPayload
		if err := json.Unmarshal(chart.Payload, &payload); err == nil {
			if payload.BirthDate != "" {
				bd := payload.BirthDate
				item.BirthDate = &bd
			}
			item.BirthTime = payload.BirthTime
			if payload.Location.DisplayName != "" {
				display := payload.Location.DisplayName
				item.Place = &display
			}
		}
		out = append(out, item)
	}
	return out, nil
}
