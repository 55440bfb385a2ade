package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/memorise-bot/internal/config"
	"github.com/aliskhannn/memorise-bot/internal/delivery/telegram"
	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/infra/postgres"
	"github.com/aliskhannn/memorise-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/memorise-bot/internal/logger"
	"github.com/aliskhannn/memorise-bot/internal/service"
	"github.com/aliskhannn/memorise-bot/internal/storage"
	"github.com/aliskhannn/memorise-bot/internal/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err = cfg.RequireTelegram(); err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "sets", Description: "List your memory sets"},
		{Command: "new", Description: "Create a set: /new name: col, col"},
		{Command: "add", Description: "Add a row: /add name: v | v"},
		{Command: "show", Description: "Show a set"},
		{Command: "quiz", Description: "Start a quiz: /quiz name [text|choice]"},
		{Command: "stop", Description: "Abandon the running quiz"},
		{Command: "history", Description: "Past tests of a set"},
		{Command: "settings", Description: "Settings"},
		{Command: "help", Description: "Help"},
	}

	if _, err = bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB.DSN(), postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		lg.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	v, err := validator.New()
	if err != nil {
		lg.Fatal("failed to create validator", zap.Error(err))
	}

	// Initialize repositories.
	userRepo := repository.NewUserRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	setRepo := repository.NewMemorySetRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	reminderRepo := repository.NewReminderRepository(pool)

	// Initialize services.
	settingsService := service.NewSettingsService(settingsRepo, entities.AnswerMode(cfg.Quiz.DefaultMode))
	userService := service.NewUserService(userRepo, settingsService, lg)
	setService := service.NewMemorySetService(setRepo, postgres.NewTransactor(pool), v, lg)
	quizService := service.NewQuizService(setService, settingsService, resultRepo, lg)
	reviewService := service.NewReviewService(setService, resultRepo)

	handler := telegram.NewHandler(
		bot,
		lg,
		userService,
		settingsService,
		setService,
		quizService,
		reviewService,
		storage.NewQuizStorage(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return handler.Run(gctx)
	})

	if cfg.Reminders.Enabled {
		reminderService := service.NewReminderService(reminderRepo, userRepo, service.ReminderConfig{
			Schedule:   cfg.Reminders.Schedule,
			StaleAfter: cfg.Reminders.StaleAfter,
		}, lg)
		reminderService.SetNotifier(telegram.NewNotifier(bot, storage.NewReminderStorage(), lg))

		g.Go(func() error {
			return reminderService.Start(gctx)
		})
	}

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("bot stopped with error", zap.Error(err))
		return
	}

	lg.Info("shutdown signal received")
}
