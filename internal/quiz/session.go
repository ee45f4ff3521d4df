// Package quiz implements the in-memory quiz session state machine: a single
// walk over an immutable question batch, one locked-in answer per question,
// and a persistable result snapshot on completion.
package quiz

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/optimum-study/optimum-backend/internal/model"
)

// State enumerates session states.
type State string

const (
	// StateAwaitingSelection means no option is locked in for the current question.
	StateAwaitingSelection State = "AWAITING_SELECTION"
	// StateAnswered means the current question is locked in and correctness revealed.
	StateAnswered State = "ANSWERED"
	// StateCompleted is terminal: every question answered, score finalized.
	StateCompleted State = "COMPLETED"
)

// Transition errors. Illegal transitions never mutate the session.
var (
	ErrEmptyBatch        = errors.New("question batch is empty")
	ErrMalformedBatch    = errors.New("malformed question batch")
	ErrIllegalTransition = errors.New("illegal transition for current state")
	ErrNoSelection       = errors.New("no option selected")
	ErrInvalidOption     = errors.New("option index out of range")
)

// Result is the snapshot emitted when a session completes.
type Result struct {
	Score          int
	TotalQuestions int
	Percentage     int
	CreatedAt      time.Time
	Answers        []model.Answer
	Questions      []model.Question
}

// Session walks an immutable ordered question batch. It is not safe for
// concurrent use; callers serialize access (the service registry holds a lock).
type Session struct {
	questions []model.Question
	current   int
	pending   *int
	answers   []model.Answer
	score     int
	state     State
}

// NewSession validates the batch and starts a session at question 0 in
// AwaitingSelection. The batch is copied so later mutation by the caller
// cannot reach the session.
func NewSession(questions []model.Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyBatch
	}
	batch := make([]model.Question, len(questions))
	copy(batch, questions)
	for i := range batch {
		if err := batch[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrMalformedBatch, i+1, err)
		}
	}
	return &Session{
		questions: batch,
		answers:   make([]model.Answer, 0, len(batch)),
		state:     StateAwaitingSelection,
	}, nil
}

// State returns the current machine state.
func (s *Session) State() State { return s.state }

// CurrentIndex returns the zero-based index of the active question.
func (s *Session) CurrentIndex() int { return s.current }

// Score returns the running count of correct answers.
func (s *Session) Score() int { return s.score }

// Total returns the batch size.
func (s *Session) Total() int { return len(s.questions) }

// CurrentQuestion returns the active question.
func (s *Session) CurrentQuestion() model.Question { return s.questions[s.current] }

// Pending returns the not-yet-submitted choice, if any.
func (s *Session) Pending() (int, bool) {
	if s.pending == nil {
		return 0, false
	}
	return *s.pending, true
}

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() []model.Answer {
	out := make([]model.Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// Questions returns a copy of the question batch.
func (s *Session) Questions() []model.Question {
	out := make([]model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// SelectOption records a pending choice for the current question without
// locking it in. Re-invocation overwrites the pending choice. Once the
// question is answered the call is rejected without mutating anything.
func (s *Session) SelectOption(idx int) error {
	if s.state != StateAwaitingSelection {
		return ErrIllegalTransition
	}
	if idx < 0 || idx >= len(s.questions[s.current].Options) {
		return ErrInvalidOption
	}
	s.pending = &idx
	return nil
}

// SubmitAnswer locks in the pending choice, appends the Answer record and
// updates the score. This is the only place score and answers are mutated,
// exactly once per question.
func (s *Session) SubmitAnswer() error {
	if s.state != StateAwaitingSelection {
		return ErrIllegalTransition
	}
	if s.pending == nil {
		return ErrNoSelection
	}

	q := s.questions[s.current]
	s.answers = append(s.answers, model.Answer{
		QuestionID: q.ID,
		Selected:   *s.pending,
		Correct:    q.CorrectAnswer,
	})
	if *s.pending == q.CorrectAnswer {
		s.score++
	}
	s.state = StateAnswered
	return nil
}

// Advance moves to the next question, or completes the session when the
// current question is the last. On completion it returns the Result snapshot;
// otherwise the result is nil. Legal only in Answered.
func (s *Session) Advance() (*Result, error) {
	if s.state != StateAnswered {
		return nil, ErrIllegalTransition
	}

	if s.current < len(s.questions)-1 {
		s.current++
		s.pending = nil
		s.state = StateAwaitingSelection
		return nil, nil
	}

	s.state = StateCompleted
	return &Result{
		Score:          s.score,
		TotalQuestions: len(s.questions),
		Percentage:     Percentage(s.score, len(s.questions)),
		CreatedAt:      time.Now().UTC(),
		Answers:        s.Answers(),
		Questions:      s.Questions(),
	}, nil
}

// Reset clears every session field and discards the question batch. Legal
// from any state; the session is unusable afterwards and should be dropped.
func (s *Session) Reset() {
	s.questions = nil
	s.current = 0
	s.pending = nil
	s.answers = nil
	s.score = 0
	s.state = StateAwaitingSelection
}

// Percentage computes round(score/total*100) with half-up rounding, so 1 of 8
// is 13 rather than 12. A zero total yields 0 rather than an error.
func Percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}
