package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

type sentReminder struct {
	chatID  int64
	payload entities.ReminderPayload
}

type fakeNotifier struct {
	mu       sync.Mutex
	sent     []sentReminder
	blocked  map[int64]bool
	attempts map[int64]int
	inFlight map[int64]int
	overlap  bool // two reminders of one chat were in flight at once
}

func (n *fakeNotifier) SendReminder(chatID int64, payload entities.ReminderPayload) error {
	n.mu.Lock()
	n.attempts[chatID]++
	n.inFlight[chatID]++
	if n.inFlight[chatID] > 1 {
		n.overlap = true
	}
	n.mu.Unlock()

	time.Sleep(100 * time.Microsecond)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.inFlight[chatID]--
	if n.blocked[chatID] {
		return fmt.Errorf("forbidden: %w", ErrChatUnavailable)
	}
	n.sent = append(n.sent, sentReminder{chatID: chatID, payload: payload})
	return nil
}

func newReminderFixture(t *testing.T, stale []entities.StaleMemorySet) (*ReminderService, *fakeSets, *fakeUsers, *fakeNotifier, time.Time) {
	t.Helper()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	sets := newFakeSets()
	sets.stale = stale
	users := newFakeUsers()
	notifier := &fakeNotifier{blocked: map[int64]bool{}, attempts: map[int64]int{}, inFlight: map[int64]int{}}

	svc := NewReminderService(sets, users, ReminderConfig{Schedule: "0 * * * *", StaleAfter: 72 * time.Hour}, zap.NewNop())
	svc.now = func() time.Time { return now }
	svc.SetNotifier(notifier)
	return svc, sets, users, notifier, now
}

// TestSendDueRemindsStaleSetsOnce verifies stale sets get exactly one reminder.
func TestSendDueRemindsStaleSetsOnce(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	used := now.Add(-5 * 24 * time.Hour)
	recent := now.Add(-time.Hour)
	stale := []entities.StaleMemorySet{
		{SetID: 1, UserID: 10, ChatID: 100, Name: "Ports", CreatedAt: now.Add(-30 * 24 * time.Hour), LastUsed: &used, RowCount: 3},
		{SetID: 2, UserID: 11, ChatID: 110, Name: "Fresh", CreatedAt: now.Add(-30 * 24 * time.Hour), LastUsed: &recent, RowCount: 1},
		{SetID: 3, UserID: 12, ChatID: 120, Name: "Never", CreatedAt: now.Add(-4 * 24 * time.Hour), RowCount: 2},
	}
	svc, sets, _, notifier, _ := newReminderFixture(t, stale)

	sent, err := svc.SendDue(context.Background())
	if err != nil {
		t.Fatalf("send due: %v", err)
	}
	if sent != 2 || len(notifier.sent) != 2 {
		t.Fatalf("sent = %d, notifications = %d", sent, len(notifier.sent))
	}
	if _, ok := sets.reminded[1]; !ok {
		t.Fatalf("set 1 not marked reminded")
	}
	if _, ok := sets.reminded[2]; ok {
		t.Fatalf("fresh set must not be reminded")
	}

	byChat := map[int64]entities.ReminderPayload{}
	for _, s := range notifier.sent {
		byChat[s.chatID] = s.payload
	}
	if p := byChat[100]; p.SetName != "Ports" || p.DaysIdle != 5 || p.RowCount != 3 {
		t.Fatalf("unexpected payload %+v", p)
	}
	if p := byChat[120]; p.LastUsed != nil || p.DaysIdle != 4 {
		t.Fatalf("unexpected payload for never used set %+v", p)
	}

	sent, err = svc.SendDue(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sent != 0 {
		t.Fatalf("second run sent %d reminders", sent)
	}
}

// TestSendDueDeactivatesBlockedUsers verifies unreachable chats deactivate their owner.
func TestSendDueDeactivatesBlockedUsers(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	stale := []entities.StaleMemorySet{
		{SetID: 1, UserID: 10, ChatID: 100, Name: "Ports", CreatedAt: now.Add(-10 * 24 * time.Hour)},
	}
	svc, sets, users, notifier, _ := newReminderFixture(t, stale)
	notifier.blocked[100] = true

	sent, err := svc.SendDue(context.Background())
	if err != nil {
		t.Fatalf("send due: %v", err)
	}
	if sent != 0 {
		t.Fatalf("sent = %d", sent)
	}
	if len(users.deactivated) != 1 || users.deactivated[0] != 10 {
		t.Fatalf("expected user 10 deactivated, got %v", users.deactivated)
	}
	if _, ok := sets.reminded[1]; ok {
		t.Fatalf("failed reminder must not be marked")
	}
}

// TestSendDuePagesThroughBatches verifies more sets than one batch are all processed.
func TestSendDuePagesThroughBatches(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	var stale []entities.StaleMemorySet
	for i := 1; i <= 250; i++ {
		stale = append(stale, entities.StaleMemorySet{
			SetID:     int64(i),
			UserID:    int64(i),
			ChatID:    int64(1000 + i),
			Name:      fmt.Sprintf("set%d", i),
			CreatedAt: now.Add(-10 * 24 * time.Hour),
		})
	}
	svc, _, _, notifier, _ := newReminderFixture(t, stale)

	sent, err := svc.SendDue(context.Background())
	if err != nil {
		t.Fatalf("send due: %v", err)
	}
	if sent != 250 || len(notifier.sent) != 250 {
		t.Fatalf("sent = %d", sent)
	}
}

// TestSendDueRequiresNotifier verifies a missing notifier is an error.
func TestSendDueRequiresNotifier(t *testing.T) {
	svc := NewReminderService(newFakeSets(), newFakeUsers(), ReminderConfig{StaleAfter: time.Hour}, zap.NewNop())
	if _, err := svc.SendDue(context.Background()); err == nil {
		t.Fatalf("expected error without notifier")
	}
}

// TestStartRejectsBadSchedule verifies invalid cron specs fail fast.
func TestStartRejectsBadSchedule(t *testing.T) {
	svc := NewReminderService(newFakeSets(), newFakeUsers(), ReminderConfig{Schedule: "not a schedule", StaleAfter: time.Hour}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Start(ctx); err == nil {
		t.Fatalf("expected schedule error")
	}
}

// TestStartStopsWithContext verifies the scheduler returns once ctx is cancelled.
func TestStartStopsWithContext(t *testing.T) {
	svc := NewReminderService(newFakeSets(), newFakeUsers(), ReminderConfig{Schedule: "@every 1h", StaleAfter: time.Hour}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("reminder service did not stop")
	}
}

// TestSendDueSerializesChats verifies the sets of one chat are reminded one
// after another in batch order.
func TestSendDueSerializesChats(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	created := now.Add(-10 * 24 * time.Hour)
	var stale []entities.StaleMemorySet
	for i := 1; i <= 8; i++ {
		chat := int64(100)
		if i%3 == 0 {
			chat = 200
		}
		stale = append(stale, entities.StaleMemorySet{
			SetID: int64(i), UserID: chat / 10, ChatID: chat, Name: fmt.Sprintf("Set%d", i), CreatedAt: created,
		})
	}
	svc, _, _, notifier, _ := newReminderFixture(t, stale)

	sent, err := svc.SendDue(context.Background())
	if err != nil {
		t.Fatalf("send due: %v", err)
	}
	if sent != 8 {
		t.Fatalf("sent = %d", sent)
	}
	if notifier.overlap {
		t.Fatalf("reminders of one chat overlapped")
	}

	var order []string
	for _, r := range notifier.sent {
		if r.chatID == 100 {
			order = append(order, r.payload.SetName)
		}
	}
	want := []string{"Set1", "Set2", "Set4", "Set5", "Set7", "Set8"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

// TestSendDueStopsAtUnavailableChat verifies a blocked chat is tried once.
func TestSendDueStopsAtUnavailableChat(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	created := now.Add(-10 * 24 * time.Hour)
	stale := []entities.StaleMemorySet{
		{SetID: 1, UserID: 10, ChatID: 100, Name: "Ports", CreatedAt: created},
		{SetID: 2, UserID: 10, ChatID: 100, Name: "Flags", CreatedAt: created},
		{SetID: 3, UserID: 11, ChatID: 110, Name: "Rivers", CreatedAt: created},
	}
	svc, _, users, notifier, _ := newReminderFixture(t, stale)
	notifier.blocked[100] = true

	sent, err := svc.SendDue(context.Background())
	if err != nil {
		t.Fatalf("send due: %v", err)
	}
	if sent != 1 || notifier.attempts[100] != 1 {
		t.Fatalf("sent = %d, attempts for blocked chat = %d", sent, notifier.attempts[100])
	}
	if len(users.deactivated) != 1 {
		t.Fatalf("deactivated = %v", users.deactivated)
	}
}
