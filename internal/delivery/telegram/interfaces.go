package telegram

import (
	"context"

	"github.com/google/uuid"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/quiz"
)

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64) error
}

type SettingsService interface {
	GetOrCreate(ctx context.Context, userID int64) (*entities.UserSettings, error)
	UpdateDefaultMode(ctx context.Context, userID int64, mode entities.AnswerMode) error
	UpdateRemindersEnabled(ctx context.Context, userID int64, enabled bool) error
}

type MemorySetService interface {
	Create(ctx context.Context, userID int64, name string, columns []entities.Column) (*entities.MemorySet, error)
	Get(ctx context.Context, userID int64, name string) (*entities.MemorySet, error)
	List(ctx context.Context, userID int64) ([]entities.MemorySetSummary, error)
	Drop(ctx context.Context, userID int64, name string) error
	Archive(ctx context.Context, userID int64, name string, archived bool) error
	AddRow(ctx context.Context, userID int64, name string, values []string) error
	DeleteRow(ctx context.Context, userID int64, name, key string) error
	Snapshot(ctx context.Context, userID int64, name string) (*entities.MemorySet, *entities.TableSnapshot, error)
}

type QuizService interface {
	Start(ctx context.Context, userID int64, setName string, mode entities.AnswerMode) (*entities.MemorySet, *quiz.Session, error)
	Finish(ctx context.Context, userID, setID int64, session *quiz.Session) (*entities.TestResult, error)
}

type ReviewService interface {
	History(ctx context.Context, userID int64, setName string) ([]entities.TestSummary, error)
	Test(ctx context.Context, userID int64, id uuid.UUID) (*entities.TestSummary, []entities.StoredAnswer, error)
}
