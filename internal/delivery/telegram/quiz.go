package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/storage"
)

// handleQuiz starts a quiz on "<name> [mode]".
func (h *Handler) handleQuiz(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if _, ok := h.quizzes.Get(chatID); ok {
			return h.send(newPlainMessage(chatID, msgQuizActive))
		}

		name, mode, err := parseQuizArgs(args)
		if err != nil {
			return err
		}

		return h.startQuiz(ctx, chatID, userID, name, mode)
	}
}

// handleStop abandons the running quiz without recording it.
func (h *Handler) handleStop() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		active, ok := h.quizzes.Get(chatID)
		if !ok {
			return h.send(newPlainMessage(chatID, msgNoActiveQuiz))
		}

		h.quizzes.Delete(chatID)
		if active.Session.Mode() == entities.ModeMultipleChoice {
			h.clearKeyboard(chatID, active.MessageID)
		}

		h.logger.Info("quiz stopped",
			zap.Int64("user_id", active.UserID),
			zap.String("set", active.Session.SetName()),
			zap.Int("answered", active.Session.Answered()),
		)

		return h.send(newPlainMessage(chatID, msgQuizStopped))
	}
}

// handleAnswer grades a free text answer, one accepted value per line.
// Messages from anyone but the quiz owner are ignored.
func (h *Handler) handleAnswer(userID int64, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if _, ok := h.quizzes.Get(chatID); !ok {
			return h.send(newPlainMessage(chatID, msgNoActiveQuiz))
		}

		active, ok := h.ownQuiz(chatID, userID)
		if !ok {
			return nil
		}

		if active.Pending != storage.NoPending {
			return h.send(newPlainMessage(chatID, msgDecideFirst))
		}

		if active.Session.Mode() == entities.ModeMultipleChoice {
			return h.send(newPlainMessage(chatID, msgUseButtons))
		}

		return h.submit(ctx, chatID, active, strings.Split(text, "\n"))
	}
}

func (h *Handler) startQuiz(ctx context.Context, chatID, userID int64, name string, mode entities.AnswerMode) error {
	set, session, err := h.quizService.Start(ctx, userID, name, mode)
	if err != nil {
		return err
	}

	active := storage.NewActiveQuiz(userID, set.ID, session)
	h.quizzes.Store(chatID, active)

	start := newMessage(chatID, formatQuizStart(set.Name, session.Mode(), session.Total()))
	if err = h.send(start); err != nil {
		h.quizzes.Delete(chatID)
		return err
	}

	return h.askQuestion(ctx, chatID, active)
}

// askQuestion sends the outstanding question of the session. The quiz is
// dropped when the question cannot be delivered.
func (h *Handler) askQuestion(ctx context.Context, chatID int64, active *storage.ActiveQuiz) error {
	q, ok := active.Session.Current()
	if !ok {
		return h.finishQuiz(ctx, chatID, active)
	}

	mode := active.Session.Mode()
	msg := newMessage(chatID, formatQuestion(q, active.Session.Answered()+1, active.Session.Total(), mode))
	if mode == entities.ModeMultipleChoice {
		active.Selection.Clear()
		active.Page = 0
		msg.ReplyMarkup = buildChoiceKeyboard(active.Session.Choices(), active.Selection, active.Page)
	}

	id, err := h.sendMessage(msg)
	if err != nil {
		h.quizzes.Delete(chatID)
		h.logger.Warn("quiz aborted, question not delivered",
			zap.Int64("user_id", active.UserID),
			zap.String("set", active.Session.SetName()),
		)
		return fmt.Errorf("ask question: %w", err)
	}
	active.MessageID = id
	return nil
}

// submit grades the outstanding question and either moves on or waits for
// the user to accept the answer anyway. When the verdict cannot be shown the
// quiz moves on.
func (h *Handler) submit(ctx context.Context, chatID int64, active *storage.ActiveQuiz, answers []string) error {
	graded, index, err := active.Session.Submit(answers)
	if err != nil {
		return err
	}

	if graded.Correct {
		_ = h.send(newMessage(chatID, md(msgCorrect)))
		return h.nextQuestion(ctx, chatID, active)
	}

	msg := newMessage(chatID, formatIncorrect(graded))
	msg.ReplyMarkup = buildVerdictKeyboard()
	if err = h.send(msg); err != nil {
		return h.nextQuestion(ctx, chatID, active)
	}
	active.Pending = index
	return nil
}

func (h *Handler) nextQuestion(ctx context.Context, chatID int64, active *storage.ActiveQuiz) error {
	if active.Session.Done() {
		return h.finishQuiz(ctx, chatID, active)
	}
	return h.askQuestion(ctx, chatID, active)
}

// finishQuiz records the finished session and shows the score.
func (h *Handler) finishQuiz(ctx context.Context, chatID int64, active *storage.ActiveQuiz) error {
	h.quizzes.Delete(chatID)

	result, err := h.quizService.Finish(ctx, active.UserID, active.SetID, active.Session)
	if err != nil {
		h.logger.Error("failed to record quiz result",
			zap.Int64("user_id", active.UserID),
			zap.String("set", active.Session.SetName()),
			zap.Error(err),
		)
		return h.send(newPlainMessage(chatID, msgResultSaveFailure))
	}

	return h.send(newMessage(chatID, formatQuizResult(result)))
}

// clearKeyboard removes the inline keyboard of a message, ignoring failures.
func (h *Handler) clearKeyboard(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, emptyKeyboard())
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.Debug("failed to clear keyboard",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
