package astro

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
)

// Bot-facing strings stay Russian, matching the product surface.
var aspectNamesRU = map[string]string{
	"conjunction": "Соединение",
	"opposition":  "Оппозиция",
	"trine":       "Тригон",
	"square":      "Квадрат",
	"sextile":     "Секстиль",
}

var angleLabels = []struct {
	Name  string
	Label string
}{
	{"Ascendant", "Asc"},
	{"Medium_Coeli", "MC"},
	{"Descendant", "Desc"},
	{"Imum_Coeli", "IC"},
}

// FormatPosition renders "Sign DD°MM'".
func FormatPosition(p domain.PointPlacement) string {
	deg := int(p.Position)
	minutes := int(math.Round((p.Position - float64(deg)) * 60))
	return fmt.Sprintf("%s %02d°%02d'", p.Sign, deg, minutes)
}

func formatPoint(p domain.PointPlacement) string {
	retro := ""
	if p.Retrograde {
		retro = " R"
	}
	name := strings.ReplaceAll(p.Name, "_", " ")
	return fmt.Sprintf("%s: %s (дом %s)%s", name, FormatPosition(p), HouseNumber(p.House), retro)
}

// FormatAspect renders one aspect line with the localized aspect name and the
// absolute orb rounded to 2 decimals.
func FormatAspect(a domain.Aspect) string {
	name, ok := aspectNamesRU[a.Aspect]
	if !ok && a.Aspect != "" {
		name = strings.ToUpper(a.Aspect[:1]) + a.Aspect[1:]
	}
	orb := math.Round(math.Abs(a.Orbit)*100) / 100
	return fmt.Sprintf("%s — %s: %s (орб %v°)", a.P1, a.P2, name, orb)
}

// BuildSummary renders the deterministic human-readable chart text: header,
// angles, the 12 house cusps in order, every computed placement, and the
// tightest major aspects. Pure function of its inputs; calling it twice on
// identical data yields byte-identical text.
func BuildSummary(data domain.ChartData, loc domain.Location, birthDate time.Time, birthTime *time.Time) string {
	timePart := "неизвестно"
	if birthTime != nil {
		timePart = birthTime.Format(BirthTimeLayout)
	}
	header := fmt.Sprintf(
		"Натальная карта\nДата: %s, Время: %s\nМесто: %s\nСистема домов: Placidus\n",
		birthDate.Format(BirthDateLayout), timePart, loc.DisplayName,
	)

	byName := make(map[string]domain.PointPlacement, len(data.Points))
	for _, p := range data.Points {
		byName[p.Name] = p
	}

	angleLines := make([]string, 0, len(angleLabels))
	for _, al := range angleLabels {
		if p, ok := byName[al.Name]; ok {
			angleLines = append(angleLines, fmt.Sprintf("%s: %s (дом %s)", al.Label, FormatPosition(p), HouseNumber(p.House)))
		}
	}

	houseLines := make([]string, 0, len(data.Houses))
	for i, h := range data.Houses {
		houseLines = append(houseLines, fmt.Sprintf("Дом %d: %s", i+1, FormatPosition(h)))
	}

	pointLines := make([]string, 0, len(data.Points))
	for _, name := range pointOrder {
		if p, ok := byName[name]; ok {
			pointLines = append(pointLines, formatPoint(p))
		}
	}

	ranked := RankAspects(data.Aspects, TopAspectLimit, MajorOnly)
	aspectLines := make([]string, 0, len(ranked))
	for _, a := range ranked {
		aspectLines = append(aspectLines, FormatAspect(a))
	}
	aspectBlock := "нет точных аспектов"
	if len(aspectLines) > 0 {
		aspectBlock = strings.Join(aspectLines, "\n")
	}

	parts := []string{
		header,
		"Углы:",
		strings.Join(angleLines, "\n"),
		"Дома:",
		strings.Join(houseLines, "\n"),
		"Планеты и точки:",
		strings.Join(pointLines, "\n"),
		"Аспекты:",
		aspectBlock,
	}
	return strings.Join(parts, "\n")
}

// pointOrder fixes the placement section ordering regardless of the order the
// engine returned points in.
var pointOrder = []string{
	"Sun",
	"Moon",
	"Mercury",
	"Venus",
	"Mars",
	"Jupiter",
	"Saturn",
	"Uranus",
	"Neptune",
	"Pluto",
	"Chiron",
	"Mean_North_Lunar_Node",
	"True_North_Lunar_Node",
	"Mean_South_Lunar_Node",
	"True_South_Lunar_Node",
	"Ceres",
	"Pallas",
	"Juno",
	"Vesta",
	"Ascendant",
	"Medium_Coeli",
	"Descendant",
	"Imum_Coeli",
}
