// Command import loads memory sets from YAML files into a user's collection.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/aliskhannn/memorise-bot/internal/config"
	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/importer"
	"github.com/aliskhannn/memorise-bot/internal/infra/postgres"
	"github.com/aliskhannn/memorise-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/memorise-bot/internal/logger"
	"github.com/aliskhannn/memorise-bot/internal/service"
	"github.com/aliskhannn/memorise-bot/internal/validator"
)

func main() {
	var (
		userID int64
		chatID int64
	)
	flag.Int64Var(&userID, "user", 0, "Telegram user ID owning the imported sets")
	flag.Int64Var(&chatID, "chat", 0, "Chat ID of the user, defaults to the user ID")
	flag.Parse()

	files := flag.Args()
	if userID == 0 || len(files) == 0 {
		log.Fatal("usage: import -user <id> [-chat <id>] <file.yaml>...")
	}
	if chatID == 0 {
		chatID = userID
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

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

	settingsService := service.NewSettingsService(repository.NewSettingsRepository(pool), entities.AnswerMode(cfg.Quiz.DefaultMode))
	userService := service.NewUserService(repository.NewUserRepository(pool), settingsService, lg)
	setService := service.NewMemorySetService(repository.NewMemorySetRepository(pool), postgres.NewTransactor(pool), v, lg)

	if err = userService.EnsureUser(ctx, userID, chatID); err != nil {
		lg.Fatal("failed to ensure user", zap.Int64("user_id", userID), zap.Error(err))
	}

	failed := 0
	for _, path := range files {
		doc, err := importer.Load(path)
		if err != nil {
			lg.Error("failed to read memory set", zap.String("file", path), zap.Error(err))
			failed++
			continue
		}

		set, err := setService.Import(ctx, userID, doc.Name, doc.ColumnDefs(), doc.RowValues())
		if err != nil {
			lg.Error("failed to import memory set",
				zap.String("file", path),
				zap.String("set", doc.Name),
				zap.Error(err),
			)
			failed++
			continue
		}

		lg.Info("memory set imported",
			zap.String("file", path),
			zap.String("set", set.Name),
			zap.Int("rows", len(doc.Rows)),
		)
	}

	if failed > 0 {
		lg.Fatal("import finished with errors", zap.Int("failed", failed), zap.Int("total", len(files)))
	}
}
