package models

import "time"

// UserProfile stores a user's language pair. Insert-only.
type UserProfile struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           string    `json:"user_id" gorm:"uniqueIndex;not null"`
	NativeLanguage   string    `json:"native_language" gorm:"not null"`
	LearningLanguage string    `json:"learning_language" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`
}
