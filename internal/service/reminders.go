package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

// ErrChatUnavailable is returned by notifiers when the chat can no longer be
// reached, e.g. the user blocked the bot. The owner is then deactivated.
var ErrChatUnavailable = errors.New("chat unavailable")

// ReminderConfig controls when study reminders are sent.
type ReminderConfig struct {
	Schedule   string        // cron spec in UTC
	StaleAfter time.Duration // a set untested for this long is due
}

// ReminderService reminds users about memory sets they have not studied for a while.
type ReminderService struct {
	sets     StaleSetRepository
	users    UserRepository
	notifier ReminderNotifier
	cfg      ReminderConfig
	logger   *zap.Logger

	now func() time.Time
}

// NewReminderService creates a new reminder service.
func NewReminderService(
	sets StaleSetRepository,
	users UserRepository,
	cfg ReminderConfig,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		sets:   sets,
		users:  users,
		cfg:    cfg,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the reminder schedule until ctx is done.
func (s *ReminderService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.cfg.Schedule, func() {
		s.logger.Info("cron triggered: processing study reminders")
		if _, err := s.SendDue(ctx); err != nil {
			s.logger.Error("failed to send study reminders", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job %q: %w", s.cfg.Schedule, err)
	}

	c.Start()
	s.logger.Info("reminder service started", zap.String("schedule", s.cfg.Schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")
	return nil
}

// SendDue sends one reminder per stale memory set and returns how many were sent.
func (s *ReminderService) SendDue(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, fmt.Errorf("notifier not initialized")
	}

	const batchSize = 100
	now := s.now()
	before := now.Add(-s.cfg.StaleAfter)

	var (
		afterID   int64
		totalSent int
	)
	for {
		// Fetch stale sets in batches
		batch, err := s.sets.ListStale(ctx, before, afterID, batchSize)
		if err != nil {
			return totalSent, fmt.Errorf("list stale memory sets: %w", err)
		}

		if len(batch) == 0 {
			break
		}

		totalSent += s.processBatch(ctx, batch, now)

		if len(batch) < batchSize {
			break // Last batch
		}
		afterID = batch[len(batch)-1].SetID
	}

	s.logger.Info("study reminders processed", zap.Int("total_sent", totalSent))

	return totalSent, nil
}

// processBatch sends the reminders of a batch. Chats are served concurrently,
// the sets of one chat one after another so each reminder replaces the
// previous one. A chat that became unavailable gets no further reminders.
func (s *ReminderService) processBatch(ctx context.Context, batch []entities.StaleMemorySet, now time.Time) int {
	const maxConcurrent = 10
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0

	for _, sets := range groupByChat(batch) {
		wg.Add(1)
		sem <- struct{}{} // Acquire

		go func() {
			defer wg.Done()
			defer func() { <-sem }() // Release

			for _, set := range sets {
				if err := s.remind(ctx, set, now); err != nil {
					s.logger.Error("failed to send study reminder",
						zap.Int64("user_id", set.UserID),
						zap.String("set", set.Name),
						zap.Error(err))
					if errors.Is(err, ErrChatUnavailable) {
						return
					}
					continue
				}
				mu.Lock()
				sent++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return sent
}

// groupByChat splits a batch per chat, keeping the batch order inside a chat.
func groupByChat(batch []entities.StaleMemorySet) [][]entities.StaleMemorySet {
	index := make(map[int64]int)
	var groups [][]entities.StaleMemorySet
	for _, set := range batch {
		i, ok := index[set.ChatID]
		if !ok {
			i = len(groups)
			index[set.ChatID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], set)
	}
	return groups
}

func (s *ReminderService) remind(ctx context.Context, set entities.StaleMemorySet, now time.Time) error {
	if err := s.notifier.SendReminder(set.ChatID, set.Payload(now)); err != nil {
		if errors.Is(err, ErrChatUnavailable) {
			if derr := s.users.Deactivate(ctx, set.UserID); derr != nil {
				return fmt.Errorf("deactivate user: %w", derr)
			}
		}
		return fmt.Errorf("send notification: %w", err)
	}

	if err := s.sets.MarkReminded(ctx, set.SetID, now); err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}

	s.logger.Debug("study reminder sent",
		zap.Int64("user_id", set.UserID),
		zap.String("set", set.Name),
	)
	return nil
}
