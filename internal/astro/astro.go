// Package astro holds the pure chart-domain logic: birth input parsing,
// fingerprinting, aspect ranking, and deterministic text rendering. Nothing
// here touches the network, the store, or the computation engine.
package astro

// ActivePoints is the fixed point set requested from the computation engine.
var ActivePoints = []string{
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
	"Mean_North_Lunar_Node",
	"Mean_South_Lunar_Node",
	"True_North_Lunar_Node",
	"True_South_Lunar_Node",
	"Ceres",
	"Pallas",
	"Juno",
	"Vesta",
	"Chiron",
	"Ascendant",
	"Medium_Coeli",
	"Descendant",
	"Imum_Coeli",
}

// HouseSystem is fixed for every computation.
const HouseSystem = "P" // Placidus

// MajorAspects is the subset rendered into summaries; minor aspects are
// excluded there.
var MajorAspects = map[string]bool{
	"conjunction": true,
	"opposition":  true,
	"trine":       true,
	"square":      true,
	"sextile":     true,
}

// KeyBodies restricts the synastry "key" aspect list.
var KeyBodies = map[string]bool{
	"Sun":       true,
	"Moon":      true,
	"Venus":     true,
	"Mars":      true,
	"Ascendant": true,
}

const (
	// TopAspectLimit caps ranked aspect lists (summary and synastry top list).
	TopAspectLimit = 20
	// KeyAspectLimit caps the synastry key sub-list.
	KeyAspectLimit = 5
)

var houseNumbers = map[string]string{
	"First_House":    "1",
	"Second_House":   "2",
	"Third_House":    "3",
	"Fourth_House":   "4",
	"Fifth_House":    "5",
	"Sixth_House":    "6",
	"Seventh_House":  "7",
	"Eighth_House":   "8",
	"Ninth_House":    "9",
	"Tenth_House":    "10",
	"Eleventh_House": "11",
	"Twelfth_House":  "12",
}

// HouseNumber maps an engine house name like "Third_House" to "3";
// unknown names pass through, empty becomes "-".
func HouseNumber(houseName string) string {
	if houseName == "" {
		return "-"
	}
	if n, ok := houseNumbers[houseName]; ok {
		return n
	}
	return houseName
}
