package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Chart is one computed single-subject result. The payload is written once and
// read back verbatim for context building; the record exists only if its wheel
// artifact was written first.
type Chart struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null;index" json:"profile_id"`

	Payload    datatypes.JSON `gorm:"not null" json:"payload"`
	WheelPath  string         `gorm:"type:text;not null" json:"wheel_path"`
	Summary    string         `gorm:"type:text;not null" json:"summary"`
	LLMSummary *string        `gorm:"type:text" json:"llm_summary,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Chart) TableName() string { return "charts" }
