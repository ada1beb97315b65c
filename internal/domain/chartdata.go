package domain

import "encoding/json"

// PointPlacement is a computed position of a body, angle, or house cusp.
// Position is degrees within the sign; AbsPos is absolute ecliptic longitude.
type PointPlacement struct {
	Name       string  `json:"name"`
	Sign       string  `json:"sign"`
	Position   float64 `json:"position"`
	AbsPos     float64 `json:"abs_pos"`
	House      string  `json:"house,omitempty"` // First_House .. Twelfth_House
	Retrograde bool    `json:"retrograde,omitempty"`
}

// Aspect is an angular relation between two points. Orbit is the deviation
// from exactness in degrees; smaller absolute orb means a tighter aspect.
type Aspect struct {
	P1     string  `json:"p1_name"`
	P2     string  `json:"p2_name"`
	Aspect string  `json:"aspect"`
	Orbit  float64 `json:"orbit"`
}

// ChartData is what the computation engine returns for one subject.
// Points holds planets, nodes, asteroids and angles in the engine's active
// point order; Houses holds the 12 cusps in house order.
type ChartData struct {
	Points    []PointPlacement `json:"points"`
	Houses    []PointPlacement `json:"houses"`
	Aspects   []Aspect         `json:"aspects"`
	JulianDay float64          `json:"julian_day"`
}

// RelationshipScore is the engine's optional synastry score payload.
type RelationshipScore struct {
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// SynastryData is the engine result for a two-subject computation.
type SynastryData struct {
	First             ChartData          `json:"first"`
	Second            ChartData          `json:"second"`
	Aspects           []Aspect           `json:"aspects"`
	HouseComparison   json.RawMessage    `json:"house_comparison,omitempty"`
	RelationshipScore *RelationshipScore `json:"relationship_score,omitempty"`
}

// ChartPayload is the opaque serialized chart stored on a Chart row. It must
// round-trip losslessly: written once after computation, read back verbatim
// for context building.
type ChartPayload struct {
	Subject   map[string]PointPlacement `json:"subject"`
	Aspects   []Aspect                  `json:"aspects"`
	Location  Location                  `json:"location"`
	BirthDate string                    `json:"birth_date"`
	BirthTime *string                   `json:"birth_time"`
}
