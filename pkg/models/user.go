package models

import "time"

// User is an account that studies flashcards
type User struct {
	ID                  int64     `json:"id" db:"id"`
	Username            string    `json:"username" db:"username"`
	Email               string    `json:"email" db:"email"`
	Language            string    `json:"language" db:"language"`
	TelegramChatID      *int64    `json:"telegram_chat_id,omitempty" db:"telegram_chat_id"` // Optional: where reminders go
	NotificationEnabled bool      `json:"notification_enabled" db:"notification_enabled"`
	NotificationHour    int       `json:"notification_hour" db:"notification_hour"` // Hour of day for reminders (0-23, UTC)
	CardsPerDay         int       `json:"cards_per_day" db:"cards_per_day"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}
