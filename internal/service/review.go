package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

// ReviewService reads back recorded tests.
type ReviewService struct {
	sets    *MemorySetService
	results ResultRepository
}

func NewReviewService(sets *MemorySetService, results ResultRepository) *ReviewService {
	return &ReviewService{sets: sets, results: results}
}

// History lists the tests of a set, newest first.
func (s *ReviewService) History(ctx context.Context, userID int64, setName string) ([]entities.TestSummary, error) {
	set, err := s.sets.Get(ctx, userID, setName)
	if err != nil {
		return nil, err
	}
	return s.results.ListBySet(ctx, set.ID)
}

// Test returns one test of userID with its answers.
func (s *ReviewService) Test(ctx context.Context, userID int64, id uuid.UUID) (*entities.TestSummary, []entities.StoredAnswer, error) {
	summary, err := s.results.GetSummary(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	answers, err := s.results.Answers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return summary, answers, nil
}
