package telegram

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

// handleSettings shows the user settings with the mode keyboard.
func (h *Handler) handleSettings(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.logger.Debug("rendering settings", zap.Int64("user_id", userID))

		settings, err := h.settingsService.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, formatSettings(settings))
		msg.ReplyMarkup = buildModeKeyboard()
		return h.send(msg)
	}
}

// handleMode sets the default answer mode, or shows the settings without arguments.
func (h *Handler) handleMode(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if strings.TrimSpace(args) == "" {
			return h.handleSettings(userID)(ctx, chatID)
		}

		mode, ok := entities.ParseAnswerMode(args)
		if !ok {
			return usageError(usageMode)
		}

		if err := h.settingsService.UpdateDefaultMode(ctx, userID, mode); err != nil {
			return err
		}

		return h.send(newMessage(chatID, md("Default answer mode: ")+bold(formatModeName(mode))))
	}
}

// handleReminders switches study reminders on or off.
func (h *Handler) handleReminders(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		enabled, ok := parseSwitch(args)
		if !ok {
			return usageError(usageReminder)
		}

		if err := h.settingsService.UpdateRemindersEnabled(ctx, userID, enabled); err != nil {
			return err
		}

		if enabled {
			return h.send(newPlainMessage(chatID, msgRemindersOn))
		}
		return h.send(newPlainMessage(chatID, msgRemindersOff))
	}
}
