package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/optimum-study/optimum-backend/internal/model"
)

// ResultRepository handles quiz result data access.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Create inserts a single completed quiz result.
func (r *ResultRepository) Create(ctx context.Context, res *model.QuizResult) error {
	answers, questions, err := marshalPayload(res)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO quiz_results (user_id, score, total_questions, percentage, answers, questions, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		res.UserID, res.Score, res.TotalQuestions, res.Percentage, answers, questions, res.CreatedAt,
	).Scan(&res.ID)
}

// CreateBatch inserts a batch of results in one round trip.
func (r *ResultRepository) CreateBatch(ctx context.Context, results []*model.QuizResult) error {
	if len(results) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, res := range results {
		answers, questions, err := marshalPayload(res)
		if err != nil {
			return err
		}
		batch.Queue(
			`INSERT INTO quiz_results (user_id, score, total_questions, percentage, answers, questions, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			res.UserID, res.Score, res.TotalQuestions, res.Percentage, answers, questions, res.CreatedAt,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range results {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch insert result: %w", err)
		}
	}
	return nil
}

// ListByUser retrieves a user's results, newest first. The wire order from
// the store is unspecified, so the ordering is pinned here.
func (r *ResultRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.QuizResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, score, total_questions, percentage, answers, questions, created_at
		 FROM quiz_results
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.QuizResult
	for rows.Next() {
		var (
			res       model.QuizResult
			answers   []byte
			questions []byte
		)
		if err := rows.Scan(&res.ID, &res.UserID, &res.Score, &res.TotalQuestions,
			&res.Percentage, &answers, &questions, &res.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answers, &res.Answers); err != nil {
			return nil, fmt.Errorf("decode answers for result %s: %w", res.ID, err)
		}
		if err := json.Unmarshal(questions, &res.Questions); err != nil {
			return nil, fmt.Errorf("decode questions for result %s: %w", res.ID, err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func marshalPayload(res *model.QuizResult) (answers, questions []byte, err error) {
	answers, err = json.Marshal(res.Answers)
	if err != nil {
		return nil, nil, fmt.Errorf("encode answers: %w", err)
	}
	questions, err = json.Marshal(res.Questions)
	if err != nil {
		return nil, nil, fmt.Errorf("encode questions: %w", err)
	}
	return answers, questions, nil
}
