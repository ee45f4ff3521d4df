package model

import (
	"errors"
	"fmt"
)

// OptionCount is the fixed number of choices on every generated question.
const OptionCount = 4

// Question is one generated quiz item. The JSON field names mirror the
// contract the generation prompt demands from the model, so a batch can be
// decoded straight from the completion content.
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Question validation errors.
var (
	ErrEmptyQuestion     = errors.New("question text is empty")
	ErrWrongOptionCount  = errors.New("question must have exactly 4 options")
	ErrDuplicateOptions  = errors.New("question options must be distinct")
	ErrCorrectOutOfRange = errors.New("correctAnswer must index an option")
)

// Validate checks the structural invariants of a single question: non-empty
// prompt, exactly four distinct options, and a correct index inside [0,3].
// A batch failing validation is malformed input and never reaches a session.
func (q *Question) Validate() error {
	if q.Question == "" {
		return ErrEmptyQuestion
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("%w: got %d", ErrWrongOptionCount, len(q.Options))
	}
	seen := make(map[string]struct{}, OptionCount)
	for _, opt := range q.Options {
		if opt == "" {
			return ErrDuplicateOptions
		}
		if _, dup := seen[opt]; dup {
			return ErrDuplicateOptions
		}
		seen[opt] = struct{}{}
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("%w: got %d", ErrCorrectOutOfRange, q.CorrectAnswer)
	}
	return nil
}

// GenerateQuestionsRequest is the payload for a question-generation call.
// APIKey is optional when the server carries a default credential.
type GenerateQuestionsRequest struct {
	APIKey string `json:"api_key"`
	Text   string `json:"text" binding:"required"`
	Count  int    `json:"count" binding:"required,min=1,max=20"`
}
