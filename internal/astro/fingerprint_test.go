package astro

import (
	"testing"
	"time"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
)

func TestFingerprintUnknownTimeIsStable(t *testing.T) {
	t.Parallel()

	loc := domain.Location{Lat: 55.7558, Lng: 37.6173, TzStr: "Europe/Moscow"}
	birthDate := time.Date(1990, 3, 12, 0, 0, 0, 0, time.UTC)

	a := Fingerprint(nil, birthDate, nil, "москва", loc)
	b := Fingerprint(nil, birthDate, nil, "москва", loc)
	if FingerprintKey(a) != FingerprintKey(b) {
		t.Fatal("identical unknown-time inputs produced different keys")
	}
	if !a.TimeUnknown || a.BirthTime != nil {
		t.Fatalf("unknown time not recorded: %+v", a)
	}
}

func TestFingerprintDistinguishesInputs(t *testing.T) {
	t.Parallel()

	loc := domain.Location{Lat: 55.7558, Lng: 37.6173, TzStr: "Europe/Moscow"}
	birthDate := time.Date(1990, 3, 12, 0, 0, 0, 0, time.UTC)
	bt, err := ParseBirthTime("12:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base := FingerprintKey(Fingerprint(nil, birthDate, nil, "москва", loc))

	// An explicit noon is a different request than "time unknown", even though
	// both compute with the same clock.
	noon := FingerprintKey(Fingerprint(nil, birthDate, bt, "москва", loc))
	if base == noon {
		t.Fatal("explicit noon collided with unknown time")
	}

	owner := int64(42)
	owned := FingerprintKey(Fingerprint(&owner, birthDate, nil, "москва", loc))
	if base == owned {
		t.Fatal("anonymous collided with owned fingerprint")
	}

	otherPlace := FingerprintKey(Fingerprint(nil, birthDate, nil, "moscow", loc))
	if base == otherPlace {
		t.Fatal("different place query collided")
	}
}
