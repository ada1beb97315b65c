package astro

import (
	"strings"
	"time"

	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
)

const (
	// BirthDateLayout is the only accepted birth date input format.
	BirthDateLayout = "02.01.2006"
	// BirthTimeLayout is the only accepted clock time input format.
	BirthTimeLayout = "15:04"
)

// unknownTimeTokens are accepted (case-insensitively) as "birth time unknown".
var unknownTimeTokens = map[string]bool{
	"не знаю":    true,
	"не помню":   true,
	"нет":        true,
	"неизвестно": true,
}

// ParseBirthDate parses a DD.MM.YYYY calendar date. Any other format,
// including ISO dates, is rejected.
func ParseBirthDate(s string) (time.Time, error) {
	d, err := time.Parse(BirthDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, apperr.Wrap(apperr.CodeInvalidDateFormat, "birth date must be in DD.MM.YYYY format", err)
	}
	return d, nil
}

// ParseBirthTime parses an HH:MM clock time. The empty string and any of the
// configured "unknown" tokens yield (nil, nil), meaning the time is unknown.
func ParseBirthTime(s string) (*time.Time, error) {
	text := strings.TrimSpace(s)
	if text == "" || unknownTimeTokens[strings.ToLower(text)] {
		return nil, nil
	}
	t, err := time.Parse(BirthTimeLayout, text)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidTimeFormat, "birth time must be in HH:MM format, or say you don't know it", err)
	}
	return &t, nil
}

// NoonHour is the computation default when the birth time is unknown. It is
// applied only when building the engine request, never stored, so repeated
// unknown-time inputs stay fingerprint-identical.
const NoonHour = 12

// ClockOrNoon returns (hour, minute) for the engine request.
func ClockOrNoon(birthTime *time.Time) (int, int) {
	if birthTime == nil {
		return NoonHour, 0
	}
	return birthTime.Hour(), birthTime.Minute()
}
