package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/storage"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	notice := ""
	defer func() {
		// Remove the user's "clock".
		answer := tgbotapi.NewCallback(cb.ID, notice)
		if _, err := h.bot.Request(answer); err != nil {
			h.logger.Debug("callback answer error", zap.Error(err))
		}
	}()

	if cb.Message == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	userID := cb.From.ID

	action, _, _ := strings.Cut(cb.Data, ":")

	var fn HandlerFunc
	switch action {
	case actionChoice:
		fn = h.handleChoiceCallback(decodeCallback(cb.Data, 2), userID, messageID, &notice)
	case actionVerdict:
		fn = h.handleVerdictCallback(decodeCallback(cb.Data, 1), userID, messageID, &notice)
	case actionDrop:
		fn = h.handleDropCallback(decodeCallback(cb.Data, 1), userID, messageID, &notice)
	case actionQuiz:
		fn = h.handleQuizCallback(decodeCallback(cb.Data, 1), userID, messageID, &notice)
	case actionReminder:
		fn = h.handleReminderCallback(decodeCallback(cb.Data, 1), userID, messageID)
	case actionMode:
		fn = h.handleModeCallback(decodeCallback(cb.Data, 1), userID, messageID, &notice)
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

// ownQuiz returns the active quiz of the chat when it belongs to userID.
func (h *Handler) ownQuiz(chatID, userID int64) (*storage.ActiveQuiz, bool) {
	active, ok := h.quizzes.Get(chatID)
	if !ok || active.UserID != userID {
		return nil, false
	}
	return active, true
}

// handleChoiceCallback toggles a choice or submits the selection.
func (h *Handler) handleChoiceCallback(cd callbackData, userID int64, messageID int, notice *string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		active, ok := h.ownQuiz(chatID, userID)
		if !ok || active.MessageID != messageID || active.Pending != storage.NoPending ||
			active.Session.Mode() != entities.ModeMultipleChoice {
			*notice = msgStaleKeyboard
			return nil
		}

		choices := active.Session.Choices()

		switch cd.param(0) {
		case choiceToggle:
			i, ok := cd.intParam(1)
			if !ok || i >= len(choices) {
				*notice = msgStaleKeyboard
				return nil
			}
			active.Selection.Toggle(choices[i])
			h.refreshChoices(chatID, messageID, active)
			return nil

		case choicePage:
			p, ok := cd.intParam(1)
			if !ok || p >= choicePages(len(choices)) {
				*notice = msgStaleKeyboard
				return nil
			}
			if p != active.Page {
				active.Page = p
				h.refreshChoices(chatID, messageID, active)
			}
			return nil

		case choiceSubmit:
			selected := active.Selection.Labels()
			active.Selection.Clear()
			h.clearKeyboard(chatID, messageID)
			return h.submit(ctx, chatID, active, selected)

		default:
			*notice = msgStaleKeyboard
			return nil
		}
	}
}

// refreshChoices redraws the choice keyboard of the current question.
func (h *Handler) refreshChoices(chatID int64, messageID int, active *storage.ActiveQuiz) {
	markup := buildChoiceKeyboard(active.Session.Choices(), active.Selection, active.Page)
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, markup)
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.Debug("failed to update choice keyboard", zap.Error(err))
	}
}

// handleVerdictCallback resolves a pending incorrect answer.
func (h *Handler) handleVerdictCallback(cd callbackData, userID int64, messageID int, notice *string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		active, ok := h.ownQuiz(chatID, userID)
		if !ok || active.Pending == storage.NoPending {
			*notice = msgStaleKeyboard
			return nil
		}

		switch cd.param(0) {
		case verdictAccept:
			if _, err := active.Session.Override(active.Pending); err != nil {
				return err
			}
			*notice = msgAcceptedAnyway
		case verdictContinue:
		default:
			*notice = msgStaleKeyboard
			return nil
		}

		active.Pending = storage.NoPending
		h.clearKeyboard(chatID, messageID)
		return h.nextQuestion(ctx, chatID, active)
	}
}

// handleDropCallback deletes or keeps the set awaiting confirmation.
func (h *Handler) handleDropCallback(cd callbackData, userID int64, messageID int, notice *string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		name, ok := h.takePendingDrop(chatID)
		if !ok {
			*notice = msgStaleKeyboard
			h.clearKeyboard(chatID, messageID)
			return nil
		}

		if cd.param(0) != dropConfirm {
			return h.send(editText(chatID, messageID, md(msgDropCancelled)))
		}

		if err := h.setService.Drop(ctx, userID, name); err != nil {
			h.clearKeyboard(chatID, messageID)
			return err
		}

		if active, ok := h.ownQuiz(chatID, userID); ok && active.Session.SetName() == name {
			h.quizzes.Delete(chatID)
		}

		return h.send(editText(chatID, messageID, md("Deleted ")+bold(name)+md(".")))
	}
}

// handleQuizCallback starts a quiz from a reminder.
func (h *Handler) handleQuizCallback(cd callbackData, userID int64, messageID int, notice *string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if _, ok := h.quizzes.Get(chatID); ok {
			*notice = msgQuizActive
			return nil
		}

		name := cd.param(0)
		if name == "" {
			*notice = msgStaleKeyboard
			return nil
		}

		h.clearKeyboard(chatID, messageID)
		return h.startQuiz(ctx, chatID, userID, name, "")
	}
}

// handleReminderCallback switches study reminders off.
func (h *Handler) handleReminderCallback(cd callbackData, userID int64, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if cd.param(0) != reminderDisable {
			return nil
		}

		if err := h.settingsService.UpdateRemindersEnabled(ctx, userID, false); err != nil {
			return err
		}

		h.clearKeyboard(chatID, messageID)
		return h.send(newPlainMessage(chatID, msgRemindersOff))
	}
}

// handleModeCallback stores the default answer mode and refreshes the settings message.
func (h *Handler) handleModeCallback(cd callbackData, userID int64, messageID int, notice *string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		mode, ok := entities.ParseAnswerMode(cd.param(0))
		if !ok {
			*notice = msgStaleKeyboard
			return nil
		}

		if err := h.settingsService.UpdateDefaultMode(ctx, userID, mode); err != nil {
			return err
		}

		settings, err := h.settingsService.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		*notice = "Default mode: " + formatModeName(mode)
		edit := editText(chatID, messageID, formatSettings(settings))
		kb := buildModeKeyboard()
		edit.ReplyMarkup = &kb
		if _, err = h.bot.Request(edit); err != nil {
			h.logger.Debug("failed to refresh settings message", zap.Error(err))
		}
		return nil
	}
}

// editText replaces the text of a message and drops its keyboard.
func editText(chatID int64, messageID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}
