package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

type UserService struct {
	repository UserRepository
	settings   *SettingsService
	logger     *zap.Logger
}

func NewUserService(repository UserRepository, settings *SettingsService, logger *zap.Logger) *UserService {
	return &UserService{repository: repository, settings: settings, logger: logger}
}

// EnsureUser registers the user on first contact and keeps the chat ID current.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64) error {
	user := entities.NewUser(userID, chatID)

	created, err := s.repository.Save(ctx, user)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	s.logger.Info("user registered", zap.Int64("user_id", userID))
	_, err = s.settings.GetOrCreate(ctx, userID)
	return err
}
