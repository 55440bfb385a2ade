package entities

import (
	"time"
)

// UserSettings stores user-specific preferences for quizzes.
type UserSettings struct {
	UserID           int64
	DefaultMode      AnswerMode // used when a quiz is started without a mode
	RemindersEnabled bool       // receive study reminders for stale sets
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewUserSettings creates a new UserSettings instance with default values.
func NewUserSettings(userID int64, mode AnswerMode) *UserSettings {
	now := time.Now()
	return &UserSettings{
		UserID:           userID,
		DefaultMode:      mode,
		RemindersEnabled: true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
