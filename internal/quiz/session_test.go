package quiz

import (
	"errors"
	"fmt"
	"testing"

	"github.com/optimum-study/optimum-backend/internal/model"
)

func makeBatch(n int) []model.Question {
	batch := make([]model.Question, 0, n)
	for i := 1; i <= n; i++ {
		batch = append(batch, model.Question{
			ID:       i,
			Question: fmt.Sprintf("Question %d?", i),
			Options: []string{
				fmt.Sprintf("q%d option a", i),
				fmt.Sprintf("q%d option b", i),
				fmt.Sprintf("q%d option c", i),
				fmt.Sprintf("q%d option d", i),
			},
			CorrectAnswer: i % 4,
		})
	}
	return batch
}

// answer walks one question: select the given option, submit, advance.
func answer(t *testing.T, s *Session, idx int) *Result {
	t.Helper()
	if err := s.SelectOption(idx); err != nil {
		t.Fatalf("SelectOption(%d): %v", idx, err)
	}
	if err := s.SubmitAnswer(); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	res, err := s.Advance()
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	return res
}

func TestNewSessionRejectsBadBatches(t *testing.T) {
	if _, err := NewSession(nil); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("empty batch: got %v, want ErrEmptyBatch", err)
	}

	bad := makeBatch(2)
	bad[1].CorrectAnswer = 4
	if _, err := NewSession(bad); !errors.Is(err, ErrMalformedBatch) {
		t.Fatalf("out-of-range correctAnswer: got %v, want ErrMalformedBatch", err)
	}

	bad = makeBatch(1)
	bad[0].Options = bad[0].Options[:3]
	if _, err := NewSession(bad); !errors.Is(err, ErrMalformedBatch) {
		t.Fatalf("three options: got %v, want ErrMalformedBatch", err)
	}
}

func TestAllCorrectRun(t *testing.T) {
	batch := makeBatch(5)
	s, err := NewSession(batch)
	if err != nil {
		t.Fatal(err)
	}

	var res *Result
	for i, q := range batch {
		if got := s.CurrentIndex(); got != i {
			t.Fatalf("currentIndex = %d, want %d", got, i)
		}
		res = answer(t, s, q.CorrectAnswer)
	}

	if s.State() != StateCompleted {
		t.Fatalf("state = %s, want COMPLETED", s.State())
	}
	if res == nil {
		t.Fatal("final Advance returned no result")
	}
	if res.Score != 5 || res.Percentage != 100 || len(res.Answers) != 5 {
		t.Fatalf("result = score %d pct %d answers %d, want 5/100/5",
			res.Score, res.Percentage, len(res.Answers))
	}
}

func TestAlternatingCorrectIncorrect(t *testing.T) {
	batch := makeBatch(4)
	s, err := NewSession(batch)
	if err != nil {
		t.Fatal(err)
	}

	// correct, incorrect, correct, incorrect
	var res *Result
	for i, q := range batch {
		idx := q.CorrectAnswer
		if i%2 == 1 {
			idx = (q.CorrectAnswer + 1) % 4
		}
		res = answer(t, s, idx)
	}

	if res.Score != 2 || res.Percentage != 50 {
		t.Fatalf("score = %d pct = %d, want 2/50", res.Score, res.Percentage)
	}
}

func TestScoreMatchesAnswersAtEveryStep(t *testing.T) {
	batch := makeBatch(6)
	s, err := NewSession(batch)
	if err != nil {
		t.Fatal(err)
	}

	check := func() {
		correct := 0
		for _, a := range s.Answers() {
			if a.Selected == a.Correct {
				correct++
			}
		}
		if s.Score() != correct {
			t.Fatalf("score %d != recount %d", s.Score(), correct)
		}
		if len(s.Answers()) > s.Total() {
			t.Fatalf("answers %d exceed total %d", len(s.Answers()), s.Total())
		}
	}

	for i, q := range batch {
		check()
		idx := (q.CorrectAnswer + i) % 4
		if err := s.SelectOption(idx); err != nil {
			t.Fatal(err)
		}
		check() // selectOption must not touch score/answers
		before := len(s.Answers())
		if err := s.SubmitAnswer(); err != nil {
			t.Fatal(err)
		}
		if len(s.Answers()) != before+1 {
			t.Fatalf("submit grew answers by %d, want 1", len(s.Answers())-before)
		}
		check()
		if _, err := s.Advance(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSubmitWithoutSelectionDoesNotMutate(t *testing.T) {
	s, err := NewSession(makeBatch(3))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SubmitAnswer(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("got %v, want ErrNoSelection", err)
	}
	if s.Score() != 0 || len(s.Answers()) != 0 || s.State() != StateAwaitingSelection {
		t.Fatal("submit without selection mutated the session")
	}
}

func TestAdvanceBeforeSubmitIsIllegal(t *testing.T) {
	s, err := NewSession(makeBatch(2))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Advance(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("got %v, want ErrIllegalTransition", err)
	}
	if s.CurrentIndex() != 0 {
		t.Fatal("illegal advance moved the index")
	}

	if err := s.SelectOption(1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Advance(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("advance with pending but unsubmitted: got %v", err)
	}
}

func TestSelectOverwritesPendingAndLocksAfterSubmit(t *testing.T) {
	batch := makeBatch(1)
	s, err := NewSession(batch)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SelectOption(0); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectOption(2); err != nil {
		t.Fatal(err)
	}
	if p, ok := s.Pending(); !ok || p != 2 {
		t.Fatalf("pending = %d/%v, want 2/true", p, ok)
	}

	if err := s.SubmitAnswer(); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectOption(0); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("select after answer: got %v, want ErrIllegalTransition", err)
	}
	if got := s.Answers()[0].Selected; got != 2 {
		t.Fatalf("recorded selection = %d, want 2", got)
	}
}

func TestSelectOutOfRange(t *testing.T) {
	s, err := NewSession(makeBatch(1))
	if err != nil {
		t.Fatal(err)
	}
	for _, idx := range []int{-1, 4, 99} {
		if err := s.SelectOption(idx); !errors.Is(err, ErrInvalidOption) {
			t.Fatalf("SelectOption(%d): got %v, want ErrInvalidOption", idx, err)
		}
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	batch := makeBatch(1)
	s, err := NewSession(batch)
	if err != nil {
		t.Fatal(err)
	}
	answer(t, s, batch[0].CorrectAnswer)

	if err := s.SelectOption(0); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("select after completion: %v", err)
	}
	if err := s.SubmitAnswer(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("submit after completion: %v", err)
	}
	if _, err := s.Advance(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("advance after completion: %v", err)
	}
}

func TestResetClearsEverything(t *testing.T) {
	batch := makeBatch(3)
	s, err := NewSession(batch)
	if err != nil {
		t.Fatal(err)
	}
	answer(t, s, batch[0].CorrectAnswer)

	s.Reset()
	if s.Score() != 0 || len(s.Answers()) != 0 || s.Total() != 0 || s.CurrentIndex() != 0 {
		t.Fatal("reset left state behind")
	}
}

func TestResultSnapshotIsDetached(t *testing.T) {
	batch := makeBatch(2)
	s, err := NewSession(batch)
	if err != nil {
		t.Fatal(err)
	}
	answer(t, s, batch[0].CorrectAnswer)
	res := answer(t, s, batch[1].CorrectAnswer)

	res.Questions[0].Question = "tampered"
	res.Answers[0].Selected = 99
	if s.Questions()[0].Question == "tampered" || s.Answers()[0].Selected == 99 {
		t.Fatal("result snapshot shares memory with the session")
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		score, total, want int
	}{
		{3, 5, 60},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds half up
		{3, 8, 38}, // 37.5 rounds half up
		{0, 7, 0},
		{7, 7, 100},
		{0, 0, 0}, // guard against division by zero
	}
	for _, c := range cases {
		if got := Percentage(c.score, c.total); got != c.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", c.score, c.total, got, c.want)
		}
	}
}
