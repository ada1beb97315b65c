package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a persisted birth-data record. It is created by the natal
// coordinator on the first successful computation for a new fingerprint and
// never mutated afterwards except for timestamps.
type Profile struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TelegramUserID *int64    `gorm:"index" json:"telegram_user_id,omitempty"`
	Label          *string   `gorm:"type:text" json:"label,omitempty"`

	// Fingerprint fields. Dedup matches on the exact tuple, including the raw
	// place query string, not just coordinates.
	BirthDate   string  `gorm:"type:text;not null;index" json:"birth_date"` // 2006-01-02
	BirthTime   *string `gorm:"type:text" json:"birth_time,omitempty"`      // 15:04
	TimeUnknown bool    `gorm:"not null;default:false" json:"time_unknown"`
	PlaceQuery  string  `gorm:"type:text;not null" json:"place_query"`
	Lat         float64 `gorm:"not null" json:"lat"`
	Lng         float64 `gorm:"not null" json:"lng"`
	TzStr       string  `gorm:"type:text;not null" json:"tz_str"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
