package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	Deactivate(ctx context.Context, userID int64) error
}

type SettingsRepository interface {
	Create(ctx context.Context, settings *entities.UserSettings) error
	GetByUserID(ctx context.Context, userID int64) (*entities.UserSettings, error)
	UpdateDefaultMode(ctx context.Context, userID int64, mode entities.AnswerMode) error
	UpdateRemindersEnabled(ctx context.Context, userID int64, enabled bool) error
}

// MemorySetRepository manages memory set definitions and rows.
type MemorySetRepository interface {
	Create(ctx context.Context, set *entities.MemorySet) (int64, error)
	GetByName(ctx context.Context, userID int64, name string) (*entities.MemorySet, error)
	Delete(ctx context.Context, userID int64, name string) error
	SetArchived(ctx context.Context, userID int64, name string, archived bool) error
	ListSummaries(ctx context.Context, userID int64) ([]entities.MemorySetSummary, error)
	InsertRow(ctx context.Context, setID int64, key string, row entities.Row) error
	DeleteRow(ctx context.Context, setID int64, key string) error
	Rows(ctx context.Context, setID int64) ([]entities.Row, error)
}

// StaleSetRepository finds memory sets due for a study reminder.
type StaleSetRepository interface {
	ListStale(ctx context.Context, before time.Time, afterID int64, limit int) ([]entities.StaleMemorySet, error)
	MarkReminded(ctx context.Context, setID int64, at time.Time) error
}

// ResultRepository persists finished quiz sessions.
type ResultRepository interface {
	Save(ctx context.Context, setID int64, result *entities.TestResult) error
	ListBySet(ctx context.Context, setID int64) ([]entities.TestSummary, error)
	GetSummary(ctx context.Context, userID int64, id uuid.UUID) (*entities.TestSummary, error)
	Answers(ctx context.Context, testID uuid.UUID) ([]entities.StoredAnswer, error)
}

// Transactor runs fn inside one database transaction carried by ctx.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReminderNotifier sends reminder notifications to users.
type ReminderNotifier interface {
	SendReminder(chatID int64, payload entities.ReminderPayload) error
}

// StructValidator validates tagged structs.
type StructValidator interface {
	Struct(s any) error
}
