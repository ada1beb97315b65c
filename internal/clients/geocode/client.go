package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/httpx"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
	"github.com/dmitriyshad-AI/astro-bot/internal/utils"
)

// Result is the single top hit returned by the geocoding service.
type Result struct {
	DisplayName string
	Lat         float64
	Lng         float64
}

// Client searches free-text place queries against Nominatim.
type Client interface {
	Search(ctx context.Context, query string) (*Result, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	userAgent  string
	httpClient *http.Client

	// Upstream politeness: at most ~1 request per second, process-wide.
	paceMu   sync.Mutex
	lastCall time.Time
	pace     time.Duration

	retryBase time.Duration
	retryStep time.Duration
}

const (
	attemptTimeout = 8 * time.Second
	// maxRetries counts additional attempts after the first, on timeout only.
	maxRetries   = 2
	retryBase    = 1 * time.Second
	retryStep    = 500 * time.Millisecond
	defaultPace  = 1 * time.Second
	nominatimURL = "https://nominatim.openstreetmap.org/search"
)

func NewClient(log *logger.Logger) Client {
	return &client{
		log:        log.With("client", "GeocodeClient"),
		baseURL:    strings.TrimRight(utils.GetEnv("NOMINATIM_URL", nominatimURL, log), "/"),
		userAgent:  utils.GetEnv("GEOCODE_USER_AGENT", "astro-bot/1.0", log),
		httpClient: &http.Client{Timeout: attemptTimeout},
		pace:       defaultPace,
		retryBase:  retryBase,
		retryStep:  retryStep,
	}
}

func (c *client) Search(ctx context.Context, query string) (*Result, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Linear backoff on top of the mandatory pacing delay.
			time.Sleep(c.retryBase + time.Duration(attempt)*c.retryStep)
		}
		c.waitTurn()

		res, err := c.searchOnce(ctx, query)
		if err == nil {
			return res, nil
		}
		if httpx.IsTimeoutError(err) {
			lastErr = err
			c.log.Warn("geocode timeout", "query", query, "attempt", attempt+1)
			continue
		}
		return nil, err
	}
	return nil, apperr.Wrap(apperr.CodeGeocodeUnavailable, "geocoding service did not respond, try again later", lastErr)
}

// waitTurn enforces the pacing delay before every upstream call.
func (c *client) waitTurn() {
	c.paceMu.Lock()
	wait := c.pace - time.Since(c.lastCall)
	if wait > 0 {
		time.Sleep(wait)
	}
	c.lastCall = time.Now()
	c.paceMu.Unlock()
}

func (c *client) searchOnce(ctx context.Context, query string) (*Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeGeocodeTransportError, "could not build geocode request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if httpx.IsTimeoutError(err) {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.CodeGeocodeTransportError, "could not reach geocoding service", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeGeocodeTransportError, "could not read geocode response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Wrap(apperr.CodeGeocodeTransportError,
			fmt.Sprintf("geocoding service returned status %d", resp.StatusCode), nil)
	}

	var hits []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(body, &hits); err != nil {
		return nil, apperr.Wrap(apperr.CodeGeocodeTransportError, "unexpected geocode response format", err)
	}
	if len(hits) == 0 {
		return nil, apperr.New(apperr.CodePlaceNotFound, "place not found, try a more specific city/country")
	}

	first := hits[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeGeocodeTransportError, "geocode returned a bad latitude", err)
	}
	lng, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeGeocodeTransportError, "geocode returned a bad longitude", err)
	}
	display := first.DisplayName
	if display == "" {
		display = query
	}
	return &Result{DisplayName: display, Lat: lat, Lng: lng}, nil
}
