package model

import (
	"time"

	"github.com/google/uuid"
)

// Answer records one submitted response. Correct is the correct index at the
// time of recording (denormalized, never recomputed later).
type Answer struct {
	QuestionID int `json:"questionId"`
	Selected   int `json:"selected"`
	Correct    int `json:"correct"`
}

// QuizResult is the persisted snapshot of a completed session. Questions and
// answers are denormalized so history review needs no other lookup.
type QuizResult struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	Percentage     int        `json:"percentage"`
	Answers        []Answer   `json:"answers"`
	Questions      []Question `json:"questions"`
	CreatedAt      time.Time  `json:"created_at"`
}
