package astro

import (
	"math"
	"testing"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
)

func aspect(p1, p2, name string, orb float64) domain.Aspect {
	return domain.Aspect{P1: p1, P2: p2, Aspect: name, Orbit: orb}
}

func TestRankAspectsSortsByAbsoluteOrb(t *testing.T) {
	t.Parallel()

	in := []domain.Aspect{
		aspect("Sun", "Moon", "trine", 3.2),
		aspect("Mars", "Saturn", "square", -0.1),
		aspect("Venus", "Pluto", "sextile", 5.0),
		aspect("Mercury", "Jupiter", "opposition", 1.4),
	}
	out := RankAspects(in, 0, nil)
	want := []float64{0.1, 1.4, 3.2, 5.0}
	if len(out) != len(want) {
		t.Fatalf("unexpected length: %d", len(out))
	}
	for i, w := range want {
		if math.Abs(math.Abs(out[i].Orbit)-w) > 1e-9 {
			t.Fatalf("position %d: got orb %v want %v", i, out[i].Orbit, w)
		}
	}
}

func TestRankAspectsCapsAfterSorting(t *testing.T) {
	t.Parallel()

	// The tightest aspect is last in input; a pre-sort cap would lose it.
	in := []domain.Aspect{
		aspect("Sun", "Moon", "trine", 4.0),
		aspect("Venus", "Mars", "square", 3.0),
		aspect("Moon", "Pluto", "sextile", 0.2),
	}
	out := RankAspects(in, 2, nil)
	if len(out) != 2 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	if out[0].P2 != "Pluto" {
		t.Fatalf("tightest aspect lost by capping: %+v", out)
	}
}

func TestRankAspectsMajorOnly(t *testing.T) {
	t.Parallel()

	in := []domain.Aspect{
		aspect("Sun", "Moon", "quintile", 0.1),
		aspect("Sun", "Mars", "square", 2.0),
	}
	out := RankAspects(in, 0, MajorOnly)
	if len(out) != 1 || out[0].Aspect != "square" {
		t.Fatalf("minor aspect not filtered: %+v", out)
	}
}

func TestTopAndKeyAspects(t *testing.T) {
	t.Parallel()

	in := make([]domain.Aspect, 0, 25)
	// 22 aspects between non-key bodies, orbs 1..22.
	for i := 0; i < 22; i++ {
		in = append(in, aspect("Mercury", "Jupiter", "trine", float64(i+1)))
	}
	in = append(in,
		aspect("Sun", "Saturn", "square", 0.5),
		aspect("Moon", "Pluto", "opposition", 0.3),
		aspect("Ascendant", "Mercury", "conjunction", 30.0), // outside top 20
	)

	top, key := TopAndKeyAspects(in)
	if len(top) != TopAspectLimit {
		t.Fatalf("unexpected top length: %d", len(top))
	}
	if len(key) != 2 {
		t.Fatalf("unexpected key length: %d", len(key))
	}
	if key[0].P2 != "Pluto" || key[1].P2 != "Saturn" {
		t.Fatalf("key aspects not ordered by tightness: %+v", key)
	}
	// Key aspects must come from the top list only.
	for _, a := range key {
		if a.P1 == "Ascendant" {
			t.Fatalf("key aspect drawn from outside the top list: %+v", a)
		}
	}
}
