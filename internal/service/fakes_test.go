package service

import (
	"context"
	"maps"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/memorise-bot/internal/validator"
)

type fakeSet struct {
	set  entities.MemorySet
	keys []string
	rows []entities.Row
}

// fakeSets is an in-memory MemorySetRepository and StaleSetRepository.
type fakeSets struct {
	mu       sync.Mutex
	nextID   int64
	sets     map[int64]*fakeSet
	stale    []entities.StaleMemorySet
	reminded map[int64]time.Time

	rollbacks int
}

func newFakeSets() *fakeSets {
	return &fakeSets{sets: make(map[int64]*fakeSet), reminded: make(map[int64]time.Time)}
}

// InTx snapshots the store and restores it when fn fails.
func (f *fakeSets) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	saved := make(map[int64]fakeSet, len(f.sets))
	for id, s := range f.sets {
		saved[id] = fakeSet{set: s.set, keys: slices.Clone(s.keys), rows: slices.Clone(s.rows)}
	}
	nextID := f.nextID
	f.mu.Unlock()

	err := fn(ctx)
	if err == nil {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets = make(map[int64]*fakeSet, len(saved))
	for id, s := range saved {
		restored := s
		f.sets[id] = &restored
	}
	f.nextID = nextID
	f.rollbacks++
	return err
}

func (f *fakeSets) find(userID int64, name string) *fakeSet {
	for _, s := range f.sets {
		if s.set.UserID == userID && s.set.Name == name {
			return s
		}
	}
	return nil
}

func (f *fakeSets) Create(_ context.Context, set *entities.MemorySet) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.find(set.UserID, set.Name) != nil {
		return 0, repository.ErrMemorySetExists
	}
	f.nextID++
	set.ID = f.nextID
	f.sets[set.ID] = &fakeSet{set: *set}
	return set.ID, nil
}

func (f *fakeSets) GetByName(_ context.Context, userID int64, name string) (*entities.MemorySet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.find(userID, name)
	if s == nil {
		return nil, repository.ErrMemorySetNotFound
	}
	set := s.set
	return &set, nil
}

func (f *fakeSets) Delete(_ context.Context, userID int64, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.find(userID, name)
	if s == nil {
		return repository.ErrMemorySetNotFound
	}
	delete(f.sets, s.set.ID)
	return nil
}

func (f *fakeSets) SetArchived(_ context.Context, userID int64, name string, archived bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.find(userID, name)
	if s == nil {
		return repository.ErrMemorySetNotFound
	}
	if archived {
		now := time.Now()
		s.set.ArchivedAt = &now
	} else {
		s.set.ArchivedAt = nil
	}
	return nil
}

func (f *fakeSets) ListSummaries(_ context.Context, userID int64) ([]entities.MemorySetSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []entities.MemorySetSummary
	for _, s := range f.sets {
		if s.set.UserID != userID {
			continue
		}
		res = append(res, entities.MemorySetSummary{
			Name:      s.set.Name,
			CreatedAt: s.set.CreatedAt,
			Archived:  s.set.ArchivedAt != nil,
			RowCount:  len(s.rows),
		})
	}
	return res, nil
}

func (f *fakeSets) InsertRow(_ context.Context, setID int64, key string, row entities.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sets[setID]
	if !ok {
		return repository.ErrMemorySetNotFound
	}
	for _, existing := range s.rows {
		if maps.Equal(existing, row) {
			return repository.ErrDuplicateRow
		}
	}
	s.keys = append(s.keys, key)
	s.rows = append(s.rows, row)
	return nil
}

func (f *fakeSets) DeleteRow(_ context.Context, setID int64, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sets[setID]
	if !ok {
		return repository.ErrMemorySetNotFound
	}
	var keys []string
	var rows []entities.Row
	for i, k := range s.keys {
		if k != key {
			keys = append(keys, k)
			rows = append(rows, s.rows[i])
		}
	}
	if len(keys) == len(s.keys) {
		return repository.ErrRowNotFound
	}
	s.keys, s.rows = keys, rows
	return nil
}

func (f *fakeSets) Rows(_ context.Context, setID int64) ([]entities.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sets[setID]
	if !ok {
		return nil, repository.ErrMemorySetNotFound
	}
	return append([]entities.Row(nil), s.rows...), nil
}

func (f *fakeSets) ListStale(_ context.Context, before time.Time, afterID int64, limit int) ([]entities.StaleMemorySet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []entities.StaleMemorySet
	for _, s := range f.stale {
		if s.SetID <= afterID {
			continue
		}
		if _, done := f.reminded[s.SetID]; done {
			continue
		}
		last := s.CreatedAt
		if s.LastUsed != nil {
			last = *s.LastUsed
		}
		if !last.Before(before) {
			continue
		}
		res = append(res, s)
		if len(res) == limit {
			break
		}
	}
	return res, nil
}

func (f *fakeSets) MarkReminded(_ context.Context, setID int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminded[setID] = at
	return nil
}

// fakeSettings is an in-memory SettingsRepository.
type fakeSettings struct {
	mu       sync.Mutex
	settings map[int64]*entities.UserSettings
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{settings: make(map[int64]*entities.UserSettings)}
}

func (f *fakeSettings) Create(_ context.Context, s *entities.UserSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.settings[s.UserID]; !ok {
		cp := *s
		f.settings[s.UserID] = &cp
	}
	return nil
}

func (f *fakeSettings) GetByUserID(_ context.Context, userID int64) (*entities.UserSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.settings[userID]
	if !ok {
		return nil, repository.ErrSettingsNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSettings) UpdateDefaultMode(_ context.Context, userID int64, mode entities.AnswerMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.settings[userID]
	if !ok {
		return repository.ErrSettingsNotFound
	}
	s.DefaultMode = mode
	return nil
}

func (f *fakeSettings) UpdateRemindersEnabled(_ context.Context, userID int64, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.settings[userID]
	if !ok {
		return repository.ErrSettingsNotFound
	}
	s.RemindersEnabled = enabled
	return nil
}

// fakeResults is an in-memory ResultRepository.
type fakeResults struct {
	mu      sync.Mutex
	saved   map[uuid.UUID]*entities.TestResult
	setOf   map[uuid.UUID]int64
	saveErr error
}

func newFakeResults() *fakeResults {
	return &fakeResults{saved: make(map[uuid.UUID]*entities.TestResult), setOf: make(map[uuid.UUID]int64)}
}

func (f *fakeResults) Save(_ context.Context, setID int64, r *entities.TestResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[r.ID] = r
	f.setOf[r.ID] = setID
	return nil
}

func summaryOf(r *entities.TestResult) entities.TestSummary {
	return entities.TestSummary{
		ID:        r.ID,
		SetName:   r.SetName,
		Mode:      r.Mode,
		TakenAt:   r.TakenAt,
		Answered:  len(r.Answers),
		Incorrect: r.Incorrect,
	}
}

func (f *fakeResults) ListBySet(_ context.Context, setID int64) ([]entities.TestSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []entities.TestSummary
	for id, r := range f.saved {
		if f.setOf[id] == setID {
			res = append(res, summaryOf(r))
		}
	}
	return res, nil
}

func (f *fakeResults) GetSummary(_ context.Context, userID int64, id uuid.UUID) (*entities.TestSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.saved[id]
	if !ok || r.UserID != userID {
		return nil, repository.ErrTestNotFound
	}
	s := summaryOf(r)
	return &s, nil
}

func (f *fakeResults) Answers(_ context.Context, testID uuid.UUID) ([]entities.StoredAnswer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.saved[testID]
	if !ok {
		return nil, nil
	}
	var res []entities.StoredAnswer
	for i, a := range r.Answers {
		res = append(res, entities.StoredAnswer{
			TestID:        r.ID,
			QuestionID:    i,
			SourceColumn:  a.Question.SourceColumn,
			SourceValue:   a.Question.SourceValue,
			TargetColumn:  a.Question.TargetColumn,
			UserAnswer:    a.SubmittedText(),
			CorrectAnswer: a.AcceptedText(),
			IsCorrect:     a.Correct,
		})
	}
	return res, nil
}

// fakeUsers is an in-memory UserRepository.
type fakeUsers struct {
	mu          sync.Mutex
	users       map[int64]*entities.User
	deactivated []int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[int64]*entities.User)}
}

func (f *fakeUsers) Save(_ context.Context, u *entities.User) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, exists := f.users[u.ID]
	cp := *u
	f.users[u.ID] = &cp
	return !exists, nil
}

func (f *fakeUsers) Deactivate(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivated = append(f.deactivated, userID)
	if u, ok := f.users[userID]; ok {
		u.IsActive = false
	}
	return nil
}

// env bundles the services under test with their fakes.
type env struct {
	sets     *fakeSets
	settings *fakeSettings
	results  *fakeResults
	users    *fakeUsers

	setService      *MemorySetService
	settingsService *SettingsService
	quizService     *QuizService
	reviewService   *ReviewService
	userService     *UserService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	v, err := validator.New()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	logger := zap.NewNop()

	e := &env{
		sets:     newFakeSets(),
		settings: newFakeSettings(),
		results:  newFakeResults(),
		users:    newFakeUsers(),
	}
	e.setService = NewMemorySetService(e.sets, e.sets, v, logger)
	e.settingsService = NewSettingsService(e.settings, entities.ModeFreeText)
	e.quizService = NewQuizService(e.setService, e.settingsService, e.results, logger)
	e.reviewService = NewReviewService(e.setService, e.results)
	e.userService = NewUserService(e.users, e.settingsService, logger)
	return e
}

func cols(names ...string) []entities.Column {
	out := make([]entities.Column, 0, len(names))
	for _, n := range names {
		out = append(out, entities.Column{Name: n})
	}
	return out
}

// routerSet creates the Device/Port set used across tests.
func (e *env) routerSet(t *testing.T, userID int64) *entities.MemorySet {
	t.Helper()
	ctx := context.Background()
	set, err := e.setService.Create(ctx, userID, "Ports", cols("Device", "Port"))
	if err != nil {
		t.Fatalf("create set: %v", err)
	}
	for _, row := range [][]string{{"Router", "80"}, {"Switch", "22"}} {
		if err := e.setService.AddRow(ctx, userID, "Ports", row); err != nil {
			t.Fatalf("add row: %v", err)
		}
	}
	return set
}
