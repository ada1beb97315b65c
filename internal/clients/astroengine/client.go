package astroengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
	"github.com/dmitriyshad-AI/astro-bot/internal/utils"
)

// SubjectRequest describes one subject for the computation engine. When the
// birth time is unknown the caller has already substituted noon.
type SubjectRequest struct {
	Name         string   `json:"name"`
	Year         int      `json:"year"`
	Month        int      `json:"month"`
	Day          int      `json:"day"`
	Hour         int      `json:"hour"`
	Minute       int      `json:"minute"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	TzStr        string   `json:"tz_str"`
	HousesSystem string   `json:"houses_system_identifier"`
	ActivePoints []string `json:"active_points"`
}

// Engine is the external ephemeris/chart-computation collaborator. It holds
// process-global ephemeris state on its side and is NOT safe for concurrent
// invocation: callers must serialize every call through one lock.
type Engine interface {
	ComputeNatal(ctx context.Context, subject SubjectRequest) (*domain.ChartData, error)
	ComputeSynastry(ctx context.Context, first, second SubjectRequest) (*domain.SynastryData, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) Engine {
	return &client{
		log:        log.With("client", "AstroEngineClient"),
		baseURL:    strings.TrimRight(utils.GetEnv("ASTRO_ENGINE_URL", "http://localhost:8100", log), "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *client) ComputeNatal(ctx context.Context, subject SubjectRequest) (*domain.ChartData, error) {
	var out domain.ChartData
	if err := c.post(ctx, "/v1/natal", map[string]any{"subject": subject}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) ComputeSynastry(ctx context.Context, first, second SubjectRequest) (*domain.SynastryData, error) {
	body := map[string]any{
		"first":                      first,
		"second":                     second,
		"include_house_comparison":   true,
		"include_relationship_score": true,
	}
	var out domain.SynastryData
	if err := c.post(ctx, "/v1/synastry", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperr.Wrap(apperr.CodeEngineError, "could not encode engine request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperr.Wrap(apperr.CodeEngineError, "could not build engine request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.CodeEngineError, "computation engine is unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Wrap(apperr.CodeEngineError, "could not read engine response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return apperr.Wrap(apperr.CodeEngineError,
			fmt.Sprintf("computation engine returned status %d", resp.StatusCode), nil)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Wrap(apperr.CodeEngineError, "unexpected engine response format", err)
	}
	return nil
}
