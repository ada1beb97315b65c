package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one question/answer exchange tied to a chart. Append-only:
// no update or delete; answer is null when generation failed.
type ChatMessage struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChartID  uuid.UUID `gorm:"type:uuid;not null;index" json:"chart_id"`
	Question string    `gorm:"type:text;not null" json:"question"`
	Answer   *string   `gorm:"type:text" json:"answer,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
