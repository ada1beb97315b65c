package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CompatibilityRun is one two-subject (synastry) computation. Runs are always
// computed fresh; the two-subject key space is large and reuse is rare.
type CompatibilityRun struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TelegramUserID *int64     `gorm:"index" json:"telegram_user_id,omitempty"`
	SelfProfileID  *uuid.UUID `gorm:"type:uuid" json:"self_profile_id,omitempty"`
	PartnerProfID  *uuid.UUID `gorm:"type:uuid;column:partner_profile_id" json:"partner_profile_id,omitempty"`

	Synastry datatypes.JSON `gorm:"not null" json:"synastry"`
	Score    datatypes.JSON `json:"score,omitempty"`
	// TopAspects stores {"top": [...], "key": [...]}.
	TopAspects datatypes.JSON `gorm:"not null" json:"top_aspects"`
	WheelPath  string         `gorm:"type:text;not null" json:"wheel_path"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (CompatibilityRun) TableName() string { return "compatibility_runs" }
