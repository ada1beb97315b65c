package domain

import "time"

// User mirrors the Telegram WebApp identity; upserted from validated initData.
type User struct {
	TelegramUserID int64   `gorm:"primaryKey" json:"telegram_user_id"`
	Username       *string `gorm:"type:text" json:"username,omitempty"`
	FirstName      *string `gorm:"type:text" json:"first_name,omitempty"`
	LastName       *string `gorm:"type:text" json:"last_name,omitempty"`
	LanguageCode   *string `gorm:"type:text" json:"language_code,omitempty"`
	IsPremium      *bool   `json:"is_premium,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }
