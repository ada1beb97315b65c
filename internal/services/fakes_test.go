package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmitriyshad-AI/astro-bot/internal/clients/astroengine"
	"github.com/dmitriyshad-AI/astro-bot/internal/clients/geocode"
	"github.com/dmitriyshad-AI/astro-bot/internal/data/repos"
	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/dbctx"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type fakeLocationRepo struct {
	mu      sync.Mutex
	rows    map[string]*domain.LocationCache
	upserts int
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{rows: map[string]*domain.LocationCache{}}
}

func (r *fakeLocationRepo) Get(_ dbctx.Context, query string) (*domain.LocationCache, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[query]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeLocationRepo) Upsert(_ dbctx.Context, row *domain.LocationCache) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *row
	r.rows[row.Query] = &cp
	r.upserts++
	return nil
}

type fakeGeocoder struct {
	mu     sync.Mutex
	result geocode.Result
	err    error
	calls  int
}

func (g *fakeGeocoder) Search(_ context.Context, _ string) (*geocode.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	cp := g.result
	return &cp, nil
}

type fakeTzLookup struct {
	tz    string
	err   error
	calls int
}

func (f *fakeTzLookup) TimezoneAt(_, _ float64) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.tz, nil
}

type fakeProfileRepo struct {
	mu   sync.Mutex
	rows []*domain.Profile
}

func (r *fakeProfileRepo) Create(_ dbctx.Context, row *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.CreatedAt = time.Now().UTC()
	cp := *row
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeProfileRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) FindByFingerprint(_ dbctx.Context, fp repos.ProfileFingerprint) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.rows) - 1; i >= 0; i-- {
		p := r.rows[i]
		if !int64PtrEq(p.TelegramUserID, fp.TelegramUserID) {
			continue
		}
		if p.BirthDate != fp.BirthDate || p.TimeUnknown != fp.TimeUnknown {
			continue
		}
		if !strPtrEq(p.BirthTime, fp.BirthTime) {
			continue
		}
		if p.PlaceQuery != fp.PlaceQuery || p.Lat != fp.Lat || p.Lng != fp.Lng || p.TzStr != fp.TzStr {
			continue
		}
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func int64PtrEq(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type fakeChartRepo struct {
	mu   sync.Mutex
	rows []*domain.Chart
}

func (r *fakeChartRepo) Create(_ dbctx.Context, row *domain.Chart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.CreatedAt = time.Now().UTC()
	cp := *row
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeChartRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*domain.Chart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeChartRepo) LatestForProfile(_ dbctx.Context, profileID uuid.UUID) (*domain.Chart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].ProfileID == profileID {
			cp := *r.rows[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeChartRepo) ListRecent(_ dbctx.Context, limit int) ([]*domain.Chart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 10
	}
	out := make([]*domain.Chart, 0, limit)
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.rows[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeChartRepo) SetLLMSummary(_ dbctx.Context, id uuid.UUID, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.ID == id {
			c.LLMSummary = &summary
			return nil
		}
	}
	return nil
}

type fakeCompatRepo struct {
	mu   sync.Mutex
	rows []*domain.CompatibilityRun
}

func (r *fakeCompatRepo) Create(_ dbctx.Context, row *domain.CompatibilityRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.CreatedAt = time.Now().UTC()
	cp := *row
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeCompatRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*domain.CompatibilityRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeChatRepo struct {
	mu   sync.Mutex
	rows []*domain.ChatMessage
}

func (r *fakeChatRepo) Append(_ dbctx.Context, row *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.CreatedAt = time.Now().UTC()
	cp := *row
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeChatRepo) ListRecent(_ dbctx.Context, chartID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 20
	}
	out := make([]*domain.ChatMessage, 0, limit)
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if r.rows[i].ChartID == chartID {
			cp := *r.rows[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeEngine struct {
	mu          sync.Mutex
	natal       domain.ChartData
	synastry    domain.SynastryData
	err         error
	natalCalls  int
	synCalls    int
	inFlight    int
	maxInFlight int
	delay       time.Duration
}

func (e *fakeEngine) enter() {
	e.mu.Lock()
	e.inFlight++
	if e.inFlight > e.maxInFlight {
		e.maxInFlight = e.inFlight
	}
	e.mu.Unlock()
	if e.delay > 0 {
		time.Sleep(e.delay)
	}
}

func (e *fakeEngine) exit() {
	e.mu.Lock()
	e.inFlight--
	e.mu.Unlock()
}

func (e *fakeEngine) ComputeNatal(_ context.Context, _ astroengine.SubjectRequest) (*domain.ChartData, error) {
	e.enter()
	defer e.exit()
	e.mu.Lock()
	e.natalCalls++
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	cp := e.natal
	return &cp, nil
}

func (e *fakeEngine) ComputeSynastry(_ context.Context, _, _ astroengine.SubjectRequest) (*domain.SynastryData, error) {
	e.enter()
	defer e.exit()
	e.mu.Lock()
	e.synCalls++
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	cp := e.synastry
	return &cp, nil
}

type fakeLLM struct {
	mu         sync.Mutex
	configured bool
	answer     string
	err        error
	prompts    []string
}

func (l *fakeLLM) Configured() bool { return l.configured }

func (l *fakeLLM) Ask(_ context.Context, prompt, _ string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prompts = append(l.prompts, prompt)
	if l.err != nil {
		return "", l.err
	}
	return l.answer, nil
}

type fakeArtifacts struct {
	mu           sync.Mutex
	renders      int
	cleanups     int
	lastBaseName string
	err          error
}

func (a *fakeArtifacts) RenderNatal(_ *domain.ChartData, baseName string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return "", a.err
	}
	a.renders++
	a.lastBaseName = baseName
	return "/tmp/charts/" + baseName + ".png", nil
}

func (a *fakeArtifacts) RenderSynastry(_ *domain.SynastryData, baseName string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return "", a.err
	}
	a.renders++
	a.lastBaseName = baseName
	return "/tmp/charts/" + baseName + ".png", nil
}

func (a *fakeArtifacts) Cleanup(_ int) {
	a.mu.Lock()
	a.cleanups++
	a.mu.Unlock()
}

func (a *fakeArtifacts) Dir() string { return "/tmp/charts" }
