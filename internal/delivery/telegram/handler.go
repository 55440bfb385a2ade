package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot             BotAPI
	logger          *zap.Logger
	userService     UserService
	settingsService SettingsService
	setService      MemorySetService
	quizService     QuizService
	reviewService   ReviewService
	quizzes         QuizStorage

	mu    sync.Mutex
	drops map[int64]string // chat ID -> set name awaiting drop confirmation
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	userService UserService,
	settingsService SettingsService,
	setService MemorySetService,
	quizService QuizService,
	reviewService ReviewService,
	quizzes QuizStorage,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		userService:     userService,
		settingsService: settingsService,
		setService:      setService,
		quizService:     quizService,
		reviewService:   reviewService,
		quizzes:         quizzes,
		drops:           make(map[int64]string),
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if err := h.userService.EnsureUser(ctx, userID, chatID); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if !update.Message.IsCommand() {
		_ = h.withErrorHandling(h.handleAnswer(userID, update.Message.Text))(ctx, chatID)
		return
	}

	args := update.Message.CommandArguments()

	var fn HandlerFunc
	switch update.Message.Command() {
	case "start", "help":
		fn = h.handleHelp()
	case "sets":
		fn = h.handleSets(userID)
	case "new":
		fn = h.handleNew(userID, args)
	case "add":
		fn = h.handleAdd(userID, args)
	case "del":
		fn = h.handleDel(userID, args)
	case "show":
		fn = h.handleShow(userID, args)
	case "drop":
		fn = h.handleDrop(userID, args)
	case "archive":
		fn = h.handleArchive(userID, args, true)
	case "unarchive":
		fn = h.handleArchive(userID, args, false)
	case "quiz":
		fn = h.handleQuiz(userID, args)
	case "stop":
		fn = h.handleStop()
	case "history":
		fn = h.handleHistory(userID, args)
	case "review":
		fn = h.handleReview(userID, args)
	case "mode":
		fn = h.handleMode(userID, args)
	case "reminders":
		fn = h.handleReminders(userID, args)
	case "settings":
		fn = h.handleSettings(userID)
	default:
		fn = func(ctx context.Context, chatID int64) error {
			return h.send(newPlainMessage(chatID, msgUnknownCommand))
		}
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// sendMessage sends c and returns the ID of the new message.
func (h *Handler) sendMessage(c tgbotapi.Chattable) (int, error) {
	m, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return 0, err
	}
	return m.MessageID, nil
}

func (h *Handler) setPendingDrop(chatID int64, name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drops[chatID] = name
}

func (h *Handler) takePendingDrop(chatID int64) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	name, ok := h.drops[chatID]
	delete(h.drops, chatID)
	return name, ok
}
