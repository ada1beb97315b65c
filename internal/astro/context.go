package astro

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
)

// BuildContext renders the stored chart payload into the bounded plain-text
// context fed to the language model. It is the sole factual grounding for
// generated answers, so it must extract everything the payload holds:
// placements, house cusps, and up to 20 aspect lines. Pure function; returns
// "" on nil, empty, or malformed input, never an error.
func BuildContext(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var payload domain.ChartPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}

	var placements, houses []string
	for _, key := range subjectKeysInOrder(payload.Subject) {
		p := payload.Subject[key]
		if p.Sign == "" {
			continue
		}
		if strings.Contains(strings.ToLower(key), "house") {
			houses = append(houses, fmt.Sprintf("Дом %s: %s %.2f°", houseNumberFromKey(key), p.Sign, p.Position))
			continue
		}
		name := p.Name
		if name == "" {
			name = key
		}
		line := fmt.Sprintf("%s: %s %.2f°", strings.ReplaceAll(name, "_", " "), p.Sign, p.Position)
		if p.House != "" {
			line += fmt.Sprintf(", дом %s", HouseNumber(p.House))
		}
		if p.Retrograde {
			line += " R"
		}
		placements = append(placements, line)
	}

	var aspects []string
	for _, a := range payload.Aspects {
		if a.P1 == "" || a.P2 == "" || a.Aspect == "" {
			continue
		}
		aspects = append(aspects, fmt.Sprintf("%s — %s: %s (орб %.2f°)", a.P1, a.P2, a.Aspect, math.Abs(a.Orbit)))
		if len(aspects) == TopAspectLimit {
			break
		}
	}

	var parts []string
	if len(placements) > 0 {
		parts = append(parts, "Планеты и точки:")
		parts = append(parts, placements...)
	}
	if len(houses) > 0 {
		parts = append(parts, "Дома (куспиды):")
		parts = append(parts, houses...)
	}
	if len(aspects) > 0 {
		parts = append(parts, "Аспекты:")
		parts = append(parts, aspects...)
	}
	return strings.Join(parts, "\n")
}

// subjectKeysInOrder yields non-house keys in the canonical point order first,
// then everything else sorted, so the context text is deterministic no matter
// how the payload map marshals.
func subjectKeysInOrder(subject map[string]domain.PointPlacement) []string {
	if len(subject) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(subject))
	out := make([]string, 0, len(subject))
	for _, name := range pointOrder {
		key := strings.ToLower(name)
		if _, ok := subject[key]; ok {
			out = append(out, key)
			seen[key] = true
		}
	}
	for _, key := range houseKeyOrder {
		if _, ok := subject[key]; ok {
			out = append(out, key)
			seen[key] = true
		}
	}
	rest := make([]string, 0, len(subject))
	for key := range subject {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

var houseKeyOrder = []string{
	"first_house",
	"second_house",
	"third_house",
	"fourth_house",
	"fifth_house",
	"sixth_house",
	"seventh_house",
	"eighth_house",
	"ninth_house",
	"tenth_house",
	"eleventh_house",
	"twelfth_house",
}

var houseKeyNumbers = map[string]string{
	"first_house":    "1",
	"second_house":   "2",
	"third_house":    "3",
	"fourth_house":   "4",
	"fifth_house":    "5",
	"sixth_house":    "6",
	"seventh_house":  "7",
	"eighth_house":   "8",
	"ninth_house":    "9",
	"tenth_house":    "10",
	"eleventh_house": "11",
	"twelfth_house":  "12",
}

func houseNumberFromKey(key string) string {
	if n, ok := houseKeyNumbers[strings.ToLower(key)]; ok {
		return n
	}
	return key
}
