package astro

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
)

func TestBuildContextEmptyAndMalformed(t *testing.T) {
	t.Parallel()

	for name, raw := range map[string][]byte{
		"nil":       nil,
		"empty":     {},
		"malformed": []byte("{not json"),
		"no data":   []byte(`{"subject":{},"aspects":[]}`),
	} {
		raw := raw
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := BuildContext(raw); got != "" {
				t.Fatalf("expected empty context, got %q", got)
			}
		})
	}
}

func TestBuildContextSections(t *testing.T) {
	t.Parallel()

	payload := domain.ChartPayload{
		Subject: map[string]domain.PointPlacement{
			"moon":        {Name: "Moon", Sign: "Рак", Position: 3.25, House: "Fourth_House"},
			"sun":         {Name: "Sun", Sign: "Овен", Position: 15.5, House: "First_House"},
			"mercury":     {Name: "Mercury", Sign: "Рыбы", Position: 28.0, House: "Twelfth_House", Retrograde: true},
			"first_house": {Name: "First_House", Sign: "Овен", Position: 1.0},
		},
		Aspects: []domain.Aspect{
			{P1: "Sun", P2: "Moon", Aspect: "square", Orbit: -2.257},
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got := BuildContext(raw)
	for _, want := range []string{
		"Планеты и точки:",
		"Sun: Овен 15.50°, дом 1",
		"Mercury: Рыбы 28.00°, дом 12 R",
		"Дома (куспиды):",
		"Дом 1: Овен 1.00°",
		"Аспекты:",
		"Sun — Moon: square (орб 2.26°)",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("context missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "Sun:") > strings.Index(got, "Moon:") {
		t.Fatal("points out of canonical order")
	}
}

func TestBuildContextDeterministic(t *testing.T) {
	t.Parallel()

	payload := domain.ChartPayload{
		Subject: map[string]domain.PointPlacement{
			"sun":    {Name: "Sun", Sign: "Овен", Position: 1},
			"moon":   {Name: "Moon", Sign: "Рак", Position: 2},
			"custom": {Name: "Custom", Sign: "Лев", Position: 3},
			"zzz":    {Name: "Zzz", Sign: "Дева", Position: 4},
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	first := BuildContext(raw)
	for i := 0; i < 20; i++ {
		if got := BuildContext(raw); got != first {
			t.Fatal("context ordering is unstable")
		}
	}
}
