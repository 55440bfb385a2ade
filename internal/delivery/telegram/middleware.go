package telegram

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/memorise-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/memorise-bot/internal/quiz"
	"github.com/aliskhannn/memorise-bot/internal/service"
	"github.com/aliskhannn/memorise-bot/internal/validator"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling reports expected errors to the user and logs the rest.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		if text, ok := userMessage(err); ok {
			h.logger.Debug("request rejected",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, text)
			return nil
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return nil
	}
}

// userMessage maps domain errors to text shown to the user.
func userMessage(err error) (string, bool) {
	var ve *validator.Error
	switch {
	case errors.Is(err, errUsage):
		return "Usage: " + strings.TrimPrefix(err.Error(), errUsage.Error()+": "), true
	case errors.As(err, &ve):
		return "Invalid memory set: " + ve.Error(), true
	case errors.Is(err, service.ErrAllAnswerOnly):
		return "Invalid memory set: " + service.ErrAllAnswerOnly.Error() + ".", true
	case errors.Is(err, service.ErrEmptyKey),
		errors.Is(err, service.ErrRowWidth):
		return "Invalid row: " + innermost(err), true
	case errors.Is(err, repository.ErrMemorySetNotFound):
		return msgSetNotFound, true
	case errors.Is(err, repository.ErrMemorySetExists):
		return msgSetExists, true
	case errors.Is(err, repository.ErrDuplicateRow):
		return msgDuplicateRow, true
	case errors.Is(err, repository.ErrRowNotFound):
		return msgRowNotFound, true
	case errors.Is(err, repository.ErrTestNotFound):
		return msgTestNotFound, true
	case errors.Is(err, quiz.ErrEmptyQuiz):
		return msgEmptyQuiz, true
	default:
		return "", false
	}
}

// innermost returns the message of the service error without call-site prefixes.
func innermost(err error) string {
	msg := err.Error()
	for _, target := range []error{service.ErrEmptyKey, service.ErrRowWidth} {
		if i := strings.Index(msg, target.Error()); i >= 0 {
			return msg[i:]
		}
	}
	return msg
}
