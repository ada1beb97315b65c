package timezone

import (
	"fmt"

	"github.com/ringsaturn/tzf"

	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

// Lookup resolves coordinates to an IANA timezone identifier.
type Lookup interface {
	TimezoneAt(lat, lng float64) (string, error)
}

type lookup struct {
	log    *logger.Logger
	finder tzf.F
}

func NewLookup(log *logger.Logger) (Lookup, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("init timezone finder: %w", err)
	}
	return &lookup{log: log.With("client", "TimezoneLookup"), finder: finder}, nil
}

func (l *lookup) TimezoneAt(lat, lng float64) (string, error) {
	// tzf takes lng first.
	name := l.finder.GetTimezoneName(lng, lat)
	if name == "" {
		return "", apperr.New(apperr.CodeTimezoneUnresolved, "could not determine a timezone for this place")
	}
	return name, nil
}
