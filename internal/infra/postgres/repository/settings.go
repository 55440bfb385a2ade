package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/infra/postgres"
)

var ErrSettingsNotFound = errors.New("settings not found")

// SettingsRepository provides access to user settings data in the database.
type SettingsRepository struct {
	db postgres.DBTX
}

// NewSettingsRepository creates a new SettingsRepository with the provided database pool.
func NewSettingsRepository(db postgres.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Create creates default settings for a user.
func (r *SettingsRepository) Create(ctx context.Context, settings *entities.UserSettings) error {
	query := `
		INSERT INTO user_settings (
			user_id, default_mode, reminders_enabled, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		settings.UserID,
		string(settings.DefaultMode),
		settings.RemindersEnabled,
		settings.CreatedAt,
		settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create settings: %w", err)
	}

	return nil
}

// GetByUserID retrieves settings for a user.
func (r *SettingsRepository) GetByUserID(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	query := `
		SELECT user_id, default_mode, reminders_enabled, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	var (
		settings entities.UserSettings
		mode     string
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&settings.UserID,
		&mode,
		&settings.RemindersEnabled,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	settings.DefaultMode = entities.AnswerMode(mode)

	return &settings, nil
}

// UpdateDefaultMode updates the answer mode used by default.
func (r *SettingsRepository) UpdateDefaultMode(ctx context.Context, userID int64, mode entities.AnswerMode) error {
	query := `
		UPDATE user_settings
		SET default_mode = $1, updated_at = $2
		WHERE user_id = $3
	`

	result, err := r.db.Exec(ctx, query, string(mode), time.Now(), userID)
	if err != nil {
		return fmt.Errorf("update default mode: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSettingsNotFound
	}

	return nil
}

// UpdateRemindersEnabled switches study reminders on or off.
func (r *SettingsRepository) UpdateRemindersEnabled(ctx context.Context, userID int64, enabled bool) error {
	query := `
		UPDATE user_settings
		SET reminders_enabled = $1, updated_at = $2
		WHERE user_id = $3
	`

	result, err := r.db.Exec(ctx, query, enabled, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("update reminders enabled: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSettingsNotFound
	}

	return nil
}
