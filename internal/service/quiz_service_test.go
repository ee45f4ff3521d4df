package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/optimum-study/optimum-backend/internal/model"
	"github.com/optimum-study/optimum-backend/internal/quiz"
	"github.com/rs/zerolog"
)

type fakeQueue struct {
	enqueued []*model.QuizResult
	err      error
}

func (f *fakeQueue) Enqueue(_ context.Context, res *model.QuizResult) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, res)
	return nil
}

func testBatch(n int) []model.Question {
	batch := make([]model.Question, n)
	for i := range batch {
		batch[i] = model.Question{
			ID:            i + 1,
			Question:      "What is the capital of France?",
			Options:       []string{"Paris", "Lyon", "Nice", "Lille"},
			CorrectAnswer: 0,
		}
	}
	return batch
}

func newTestService(queue ResultQueue) *QuizService {
	return NewQuizService(queue, zerolog.Nop())
}

// completeSession answers every question correctly and advances to completion.
func completeSession(t *testing.T, svc *QuizService, id uuid.UUID, userID *uuid.UUID, n int) *SessionView {
	t.Helper()
	var view *SessionView
	for i := 0; i < n; i++ {
		if _, err := svc.Select(id, userID, 0); err != nil {
			t.Fatalf("select question %d: %v", i, err)
		}
		if _, err := svc.Submit(id, userID); err != nil {
			t.Fatalf("submit question %d: %v", i, err)
		}
		var err error
		view, err = svc.Advance(context.Background(), id, userID)
		if err != nil {
			t.Fatalf("advance question %d: %v", i, err)
		}
	}
	return view
}

func TestStartHidesCorrectAnswer(t *testing.T) {
	svc := newTestService(&fakeQueue{})

	view, err := svc.Start(nil, testBatch(3))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.State != quiz.StateAwaitingSelection {
		t.Fatalf("state = %s, want %s", view.State, quiz.StateAwaitingSelection)
	}
	if view.Question == nil {
		t.Fatal("expected question in view")
	}
	if view.Correct != nil {
		t.Fatal("correct index leaked before submit")
	}
	if view.TotalQuestions != 3 {
		t.Fatalf("total = %d, want 3", view.TotalQuestions)
	}
}

func TestStartRejectsMalformedBatch(t *testing.T) {
	svc := newTestService(&fakeQueue{})

	batch := testBatch(2)
	batch[1].CorrectAnswer = 7
	if _, err := svc.Start(nil, batch); !errors.Is(err, quiz.ErrMalformedBatch) {
		t.Fatalf("err = %v, want ErrMalformedBatch", err)
	}
}

func TestSubmitRevealsCorrectness(t *testing.T) {
	svc := newTestService(&fakeQueue{})

	view, err := svc.Start(nil, testBatch(1))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	id := view.SessionID

	if _, err := svc.Select(id, nil, 2); err != nil {
		t.Fatalf("select: %v", err)
	}
	view, err = svc.Submit(id, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if view.State != quiz.StateAnswered {
		t.Fatalf("state = %s, want %s", view.State, quiz.StateAnswered)
	}
	if view.Selected == nil || *view.Selected != 2 {
		t.Fatalf("selected = %v, want 2", view.Selected)
	}
	if view.Correct == nil || *view.Correct != 0 {
		t.Fatalf("correct = %v, want 0", view.Correct)
	}
	if view.Score != 0 {
		t.Fatalf("score = %d, want 0", view.Score)
	}
}

func TestCompletionEnqueuesForAuthenticatedUser(t *testing.T) {
	queue := &fakeQueue{}
	svc := newTestService(queue)
	userID := uuid.New()

	view, err := svc.Start(&userID, testBatch(2))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	final := completeSession(t, svc, view.SessionID, &userID, 2)

	if final.State != quiz.StateCompleted {
		t.Fatalf("state = %s, want %s", final.State, quiz.StateCompleted)
	}
	if final.Result == nil {
		t.Fatal("expected result snapshot")
	}
	if final.Result.Score != 2 || final.Result.Percentage != 100 {
		t.Fatalf("result = %d/%d%%, want 2/100%%", final.Result.Score, final.Result.Percentage)
	}

	if len(queue.enqueued) != 1 {
		t.Fatalf("enqueued %d results, want 1", len(queue.enqueued))
	}
	record := queue.enqueued[0]
	if record.UserID != userID {
		t.Fatalf("record user = %s, want %s", record.UserID, userID)
	}
	if record.Score != 2 || record.TotalQuestions != 2 || record.Percentage != 100 {
		t.Fatalf("record = %+v", record)
	}
	if len(record.Answers) != 2 || len(record.Questions) != 2 {
		t.Fatalf("record payload lengths: answers=%d questions=%d", len(record.Answers), len(record.Questions))
	}
}

func TestCompletionSkipsQueueForGuest(t *testing.T) {
	queue := &fakeQueue{}
	svc := newTestService(queue)

	view, err := svc.Start(nil, testBatch(1))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	completeSession(t, svc, view.SessionID, nil, 1)

	if len(queue.enqueued) != 0 {
		t.Fatalf("guest session enqueued %d results, want 0", len(queue.enqueued))
	}
}

func TestQueueFailureDoesNotBlockCompletion(t *testing.T) {
	queue := &fakeQueue{err: errors.New("redis down")}
	svc := newTestService(queue)
	userID := uuid.New()

	view, err := svc.Start(&userID, testBatch(1))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	final := completeSession(t, svc, view.SessionID, &userID, 1)

	if final.State != quiz.StateCompleted {
		t.Fatalf("state = %s, want %s", final.State, quiz.StateCompleted)
	}
	if final.Result == nil {
		t.Fatal("expected result snapshot despite queue failure")
	}
}

func TestCompletedSessionRemainsViewableUntilReset(t *testing.T) {
	svc := newTestService(&fakeQueue{})

	view, err := svc.Start(nil, testBatch(1))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	id := view.SessionID
	completeSession(t, svc, id, nil, 1)

	again, err := svc.Get(id, nil)
	if err != nil {
		t.Fatalf("get after completion: %v", err)
	}
	if again.State != quiz.StateCompleted || again.Result == nil {
		t.Fatalf("view after completion = %+v", again)
	}

	if err := svc.Reset(id, nil); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := svc.Get(id, nil); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err after reset = %v, want ErrSessionNotFound", err)
	}
}

func TestOwnershipIsEnforced(t *testing.T) {
	svc := newTestService(&fakeQueue{})
	owner := uuid.New()
	stranger := uuid.New()

	view, err := svc.Start(&owner, testBatch(1))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	id := view.SessionID

	if _, err := svc.Get(id, &stranger); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("stranger access: err = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.Get(id, nil); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("guest access to owned session: err = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.Get(id, &owner); err != nil {
		t.Fatalf("owner access: %v", err)
	}
}

func TestUnknownSession(t *testing.T) {
	svc := newTestService(&fakeQueue{})
	if _, err := svc.Get(uuid.New(), nil); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestIllegalTransitionSurfaces(t *testing.T) {
	svc := newTestService(&fakeQueue{})

	view, err := svc.Start(nil, testBatch(1))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	id := view.SessionID

	if _, err := svc.Advance(context.Background(), id, nil); !errors.Is(err, quiz.ErrIllegalTransition) {
		t.Fatalf("advance before submit: err = %v, want ErrIllegalTransition", err)
	}
	if _, err := svc.Submit(id, nil); !errors.Is(err, quiz.ErrNoSelection) {
		t.Fatalf("submit without selection: err = %v, want ErrNoSelection", err)
	}
}
