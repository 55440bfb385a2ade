package service

import (
	"context"
	"errors"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/infra/postgres/repository"
)

type SettingsService struct {
	repository  SettingsRepository
	defaultMode entities.AnswerMode
}

func NewSettingsService(repository SettingsRepository, defaultMode entities.AnswerMode) *SettingsService {
	return &SettingsService{repository: repository, defaultMode: defaultMode}
}

func (s *SettingsService) GetOrCreate(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	settings, err := s.repository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			// Create default settings.
			if err := s.repository.Create(ctx, entities.NewUserSettings(userID, s.defaultMode)); err != nil {
				return nil, err
			}
			// Retrieve newly created settings.
			return s.repository.GetByUserID(ctx, userID)
		}
		return nil, err
	}

	return settings, nil
}

// DefaultMode returns the user's preferred answer mode, falling back to the
// configured default.
func (s *SettingsService) DefaultMode(ctx context.Context, userID int64) (entities.AnswerMode, error) {
	settings, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return "", err
	}
	if settings.DefaultMode == "" {
		return s.defaultMode, nil
	}
	return settings.DefaultMode, nil
}

func (s *SettingsService) UpdateDefaultMode(ctx context.Context, userID int64, mode entities.AnswerMode) error {
	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return s.repository.UpdateDefaultMode(ctx, userID, mode)
}

func (s *SettingsService) UpdateRemindersEnabled(ctx context.Context, userID int64, enabled bool) error {
	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return s.repository.UpdateRemindersEnabled(ctx, userID, enabled)
}
