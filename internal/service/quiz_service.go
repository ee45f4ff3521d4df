package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/optimum-study/optimum-backend/internal/model"
	"github.com/optimum-study/optimum-backend/internal/quiz"
	"github.com/rs/zerolog"
)

// ErrSessionNotFound covers both a missing session and an ownership mismatch,
// so probing for other users' session IDs reveals nothing.
var ErrSessionNotFound = errors.New("quiz session not found")

const (
	// sessionIdleTTL is how long an untouched session survives before the
	// janitor prunes it.
	sessionIdleTTL = 2 * time.Hour
	janitorPeriod  = 10 * time.Minute
)

// ResultQueue hands a completed snapshot to the async persistence pipeline.
type ResultQueue interface {
	Enqueue(ctx context.Context, res *model.QuizResult) error
}

// QuizService owns the registry of live quiz sessions and exposes the state
// machine transitions. Each transition runs to completion under the registry
// lock, so re-entrant triggering from concurrent requests cannot interleave
// inside a session.
type QuizService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
	queue    ResultQueue
	log      zerolog.Logger
}

type sessionEntry struct {
	sess     *quiz.Session
	userID   *uuid.UUID // nil for guest sessions
	lastSeen time.Time
}

// NewQuizService creates a new QuizService.
func NewQuizService(queue ResultQueue, log zerolog.Logger) *QuizService {
	return &QuizService{
		sessions: make(map[uuid.UUID]*sessionEntry),
		queue:    queue,
		log:      log.With().Str("component", "quiz_service").Logger(),
	}
}

// QuestionView is the client-facing shape of the active question. The correct
// index is deliberately absent; correctness is revealed only after submit.
type QuestionView struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// ResultView is the completion snapshot rendered to the client.
type ResultView struct {
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	Percentage     int              `json:"percentage"`
	CreatedAt      time.Time        `json:"createdAt"`
	Answers        []model.Answer   `json:"answers"`
	Questions      []model.Question `json:"questions"`
}

// SessionView is the full client-facing session state.
type SessionView struct {
	SessionID      uuid.UUID     `json:"session_id"`
	State          quiz.State    `json:"state"`
	CurrentIndex   int           `json:"current_index"`
	TotalQuestions int           `json:"total_questions"`
	Score          int           `json:"score"`
	Question       *QuestionView `json:"question,omitempty"`
	Pending        *int          `json:"pending,omitempty"`
	Selected       *int          `json:"selected,omitempty"`
	Correct        *int          `json:"correct,omitempty"`
	Result         *ResultView   `json:"result,omitempty"`
}

// Start seeds a new session from a generated batch. userID is nil for guests;
// only authenticated sessions persist a result on completion.
func (s *QuizService) Start(userID *uuid.UUID, questions []model.Question) (*SessionView, error) {
	sess, err := quiz.NewSession(questions)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = &sessionEntry{sess: sess, userID: userID, lastSeen: time.Now()}
	s.mu.Unlock()

	s.log.Info().
		Str("session_id", id.String()).
		Int("questions", len(questions)).
		Bool("authenticated", userID != nil).
		Msg("Quiz session started")

	return s.viewLocked(id, sess), nil
}

// Get returns the current view of a session.
func (s *QuizService) Get(id uuid.UUID, userID *uuid.UUID) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entry(id, userID)
	if err != nil {
		return nil, err
	}
	return s.viewLocked(id, entry.sess), nil
}

// Select records a pending choice for the current question.
func (s *QuizService) Select(id uuid.UUID, userID *uuid.UUID, option int) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entry(id, userID)
	if err != nil {
		return nil, err
	}
	if err := entry.sess.SelectOption(option); err != nil {
		return nil, err
	}
	return s.viewLocked(id, entry.sess), nil
}

// Submit locks in the pending choice and reveals correctness.
func (s *QuizService) Submit(id uuid.UUID, userID *uuid.UUID) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entry(id, userID)
	if err != nil {
		return nil, err
	}
	if err := entry.sess.SubmitAnswer(); err != nil {
		return nil, err
	}
	return s.viewLocked(id, entry.sess), nil
}

// Advance moves to the next question or completes the session. On completion
// the snapshot is queued for persistence iff the session is authenticated; a
// queue failure is logged and never blocks or reverts the completion; the
// outcome shown to the user is authoritative regardless of persistence.
func (s *QuizService) Advance(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entry(id, userID)
	if err != nil {
		return nil, err
	}

	result, err := entry.sess.Advance()
	if err != nil {
		return nil, err
	}

	if result != nil && entry.userID != nil {
		record := &model.QuizResult{
			UserID:         *entry.userID,
			Score:          result.Score,
			TotalQuestions: result.TotalQuestions,
			Percentage:     result.Percentage,
			Answers:        result.Answers,
			Questions:      result.Questions,
			CreatedAt:      result.CreatedAt,
		}
		if err := s.queue.Enqueue(ctx, record); err != nil {
			s.log.Error().Err(err).
				Str("session_id", id.String()).
				Str("user_id", entry.userID.String()).
				Msg("Failed to queue quiz result for persistence")
		}
	}

	return s.viewLocked(id, entry.sess), nil
}

// Reset discards a session from any state, returning the caller to the
// pre-generation setup state.
func (s *QuizService) Reset(id uuid.UUID, userID *uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entry(id, userID)
	if err != nil {
		return err
	}
	entry.sess.Reset()
	delete(s.sessions, id)
	return nil
}

// StartJanitor prunes idle sessions until ctx is cancelled. Abandoned guest
// sessions would otherwise accumulate forever.
func (s *QuizService) StartJanitor(ctx context.Context) {
	ticker := time.NewTicker(janitorPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.prune()
		}
	}
}

func (s *QuizService) prune() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-sessionIdleTTL)
	for id, entry := range s.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			s.log.Debug().Str("session_id", id.String()).Msg("Pruned idle quiz session")
		}
	}
}

// entry looks up a session and enforces ownership. Caller holds the lock.
func (s *QuizService) entry(id uuid.UUID, userID *uuid.UUID) (*sessionEntry, error) {
	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !sameIdentity(entry.userID, userID) {
		return nil, ErrSessionNotFound
	}
	entry.lastSeen = time.Now()
	return entry, nil
}

func sameIdentity(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// viewLocked builds the client-facing view. Caller holds the lock (or holds
// the only reference, as in Start).
func (s *QuizService) viewLocked(id uuid.UUID, sess *quiz.Session) *SessionView {
	view := &SessionView{
		SessionID:      id,
		State:          sess.State(),
		CurrentIndex:   sess.CurrentIndex(),
		TotalQuestions: sess.Total(),
		Score:          sess.Score(),
	}

	switch sess.State() {
	case quiz.StateAwaitingSelection:
		q := sess.CurrentQuestion()
		view.Question = &QuestionView{ID: q.ID, Question: q.Question, Options: q.Options}
		if pending, ok := sess.Pending(); ok {
			view.Pending = &pending
		}

	case quiz.StateAnswered:
		q := sess.CurrentQuestion()
		view.Question = &QuestionView{ID: q.ID, Question: q.Question, Options: q.Options}
		answers := sess.Answers()
		last := answers[len(answers)-1]
		view.Selected = &last.Selected
		view.Correct = &last.Correct

	case quiz.StateCompleted:
		view.Result = &ResultView{
			Score:          sess.Score(),
			TotalQuestions: sess.Total(),
			Percentage:     quiz.Percentage(sess.Score(), sess.Total()),
			CreatedAt:      time.Now().UTC(),
			Answers:        sess.Answers(),
			Questions:      sess.Questions(),
		}
	}

	return view
}
