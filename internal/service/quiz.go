package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/quiz"
)

var ErrSessionNotFinished = errors.New("quiz session is not finished")

// QuizService starts quiz sessions over memory sets and records their results.
type QuizService struct {
	sets     *MemorySetService
	settings *SettingsService
	results  ResultRepository
	logger   *zap.Logger

	// newRand seeds the question order of each session; nil uses the clock.
	newRand func() *rand.Rand
}

func NewQuizService(
	sets *MemorySetService,
	settings *SettingsService,
	results ResultRepository,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		sets:     sets,
		settings: settings,
		results:  results,
		logger:   logger,
	}
}

// Start builds a session over the current contents of the set. An empty mode
// selects the user's default.
func (s *QuizService) Start(
	ctx context.Context, userID int64, setName string, mode entities.AnswerMode,
) (*entities.MemorySet, *quiz.Session, error) {
	if mode == "" {
		m, err := s.settings.DefaultMode(ctx, userID)
		if err != nil {
			return nil, nil, err
		}
		mode = m
	}

	set, snapshot, err := s.sets.Snapshot(ctx, userID, setName)
	if err != nil {
		return nil, nil, err
	}

	questions, err := quiz.Generate(snapshot)
	if err != nil {
		return nil, nil, fmt.Errorf("generate quiz for %q: %w", set.Name, err)
	}

	var rng *rand.Rand
	if s.newRand != nil {
		rng = s.newRand()
	}

	session, err := quiz.NewSession(set.Name, questions, mode, rng)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("quiz started",
		zap.Int64("user_id", userID),
		zap.String("set", set.Name),
		zap.String("mode", string(mode)),
		zap.Int("questions", session.Total()),
	)

	return set, session, nil
}

// Finish records a completed session as one test and returns it.
func (s *QuizService) Finish(ctx context.Context, userID, setID int64, session *quiz.Session) (*entities.TestResult, error) {
	if !session.Done() {
		return nil, ErrSessionNotFinished
	}

	result := entities.NewTestResult(userID, session.SetName(), session.Mode(), session.Results(), session.Incorrect())
	if err := s.results.Save(ctx, setID, result); err != nil {
		return nil, fmt.Errorf("save test result: %w", err)
	}

	s.logger.Info("quiz finished",
		zap.Int64("user_id", userID),
		zap.String("set", result.SetName),
		zap.String("test_id", result.ID.String()),
		zap.Int("answered", len(result.Answers)),
		zap.Int("incorrect", result.Incorrect),
	)

	return result, nil
}
