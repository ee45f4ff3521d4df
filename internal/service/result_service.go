package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/optimum-study/optimum-backend/internal/model"
	"github.com/optimum-study/optimum-backend/internal/repository"
)

// ResultService exposes a user's persisted quiz history.
type ResultService struct {
	resultRepo *repository.ResultRepository
}

// NewResultService creates a new ResultService.
func NewResultService(resultRepo *repository.ResultRepository) *ResultService {
	return &ResultService{resultRepo: resultRepo}
}

// ListByUser returns the user's results, newest first. A user with no history
// gets an empty slice, not an error.
func (s *ResultService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.QuizResult, error) {
	results, err := s.resultRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.QuizResult{}
	}
	return results, nil
}
