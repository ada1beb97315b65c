package astro

import (
	"math"
	"sort"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
)

// RankAspects is the one shared ranked/filtered extraction used by the natal
// summary and both synastry lists. It filters by keep (nil keeps everything),
// sorts ascending by absolute orb, and caps after sorting.
func RankAspects(aspects []domain.Aspect, limit int, keep func(domain.Aspect) bool) []domain.Aspect {
	out := make([]domain.Aspect, 0, len(aspects))
	for _, a := range aspects {
		if keep == nil || keep(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Orbit) < math.Abs(out[j].Orbit)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MajorOnly keeps conjunction/opposition/trine/square/sextile.
func MajorOnly(a domain.Aspect) bool {
	return MajorAspects[a.Aspect]
}

// InvolvesKeyBody keeps aspects touching the luminaries, Venus, Mars, or the
// Ascendant.
func InvolvesKeyBody(a domain.Aspect) bool {
	return KeyBodies[a.P1] || KeyBodies[a.P2]
}

// TopAndKeyAspects produces the synastry top list (cap 20) and its key
// sub-list (cap 5). The key list is drawn from the top list so both share one
// tightness ordering.
func TopAndKeyAspects(aspects []domain.Aspect) (top, key []domain.Aspect) {
	top = RankAspects(aspects, TopAspectLimit, nil)
	key = make([]domain.Aspect, 0, KeyAspectLimit)
	for _, a := range top {
		if InvolvesKeyBody(a) {
			key = append(key, a)
			if len(key) == KeyAspectLimit {
				break
			}
		}
	}
	return top, key
}
