package telegram

import (
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/service"
	"github.com/aliskhannn/memorise-bot/internal/storage"
)

// Notifier delivers study reminders and keeps one reminder message per chat.
type Notifier struct {
	bot       BotAPI
	reminders *storage.ReminderStorage
	logger    *zap.Logger
}

func NewNotifier(bot BotAPI, reminders *storage.ReminderStorage, logger *zap.Logger) *Notifier {
	return &Notifier{bot: bot, reminders: reminders, logger: logger}
}

// SendReminder sends a reminder for one stale memory set and deletes the
// previous reminder of the chat.
func (n *Notifier) SendReminder(chatID int64, payload entities.ReminderPayload) error {
	quizData, withQuiz := buildQuizStartCallback(payload.SetName)

	msg := newMessage(chatID, formatReminder(payload))
	msg.ReplyMarkup = buildReminderKeyboard(quizData, withQuiz)

	sent, err := n.bot.Send(msg)
	if err != nil {
		if isChatUnavailable(err) {
			n.reminders.Delete(chatID)
			return fmt.Errorf("send reminder: %w: %w", service.ErrChatUnavailable, err)
		}
		return fmt.Errorf("send reminder: %w", err)
	}

	prev, hadPrev := n.reminders.UpsertAndGetPrev(chatID, sent.MessageID)
	if hadPrev && prev.MessageID != sent.MessageID {
		if _, err := n.bot.Request(tgbotapi.NewDeleteMessage(chatID, prev.MessageID)); err != nil {
			n.logger.Debug("failed to delete previous reminder",
				zap.Int64("chat_id", chatID),
				zap.Int("message_id", prev.MessageID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// isChatUnavailable reports whether Telegram refused the chat, for example
// because the user blocked the bot.
func isChatUnavailable(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusForbidden
	}
	var apiErrVal tgbotapi.Error
	if errors.As(err, &apiErrVal) {
		return apiErrVal.Code == http.StatusForbidden
	}
	return false
}
