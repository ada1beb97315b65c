package domain

import "time"

// LocationCache is the persistent geocoding cache. A row, once written, is
// treated as immutable truth for that exact normalized query string; there is
// no TTL. Updates happen only through an explicit upsert (last write wins).
type LocationCache struct {
	Query       string    `gorm:"type:text;primaryKey" json:"query"`
	DisplayName string    `gorm:"type:text;not null;default:''" json:"display_name"`
	Lat         float64   `gorm:"not null" json:"lat"`
	Lng         float64   `gorm:"not null" json:"lng"`
	TzStr       string    `gorm:"type:text;not null" json:"tz_str"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (LocationCache) TableName() string { return "geo_cache" }

// Location is the resolved form handed around by services.
type Location struct {
	Query       string  `json:"query"`
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	TzStr       string  `json:"tz_str"`
}
