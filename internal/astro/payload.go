package astro

import (
	"strings"
	"time"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
)

// BuildPayload assembles the opaque stored chart payload from engine output.
// Subject keys are lowercased point/house names so the payload round-trips
// through the store and back into BuildContext without positional coupling.
func BuildPayload(data domain.ChartData, loc domain.Location, birthDate time.Time, birthTime *time.Time) domain.ChartPayload {
	subject := make(map[string]domain.PointPlacement, len(data.Points)+len(data.Houses))
	for _, p := range data.Points {
		subject[strings.ToLower(p.Name)] = p
	}
	for _, h := range data.Houses {
		subject[strings.ToLower(h.Name)] = h
	}

	payload := domain.ChartPayload{
		Subject:   subject,
		Aspects:   data.Aspects,
		Location:  loc,
		BirthDate: birthDate.Format("2006-01-02"),
	}
	if birthTime != nil {
		s := birthTime.Format(BirthTimeLayout)
		payload.BirthTime = &s
	}
	return payload
}
