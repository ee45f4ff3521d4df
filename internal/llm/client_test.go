package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// completionServer fakes the chat-completions endpoint, answering every
// request with the given message content.
func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); !strings.HasPrefix(auth, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		resp := map[string]any{
			"id":     "cmpl-test",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":   0,
					"message": map[string]any{"role": "assistant", "content": content},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

const validBatch = `[
  {"id": 1, "question": "What is Go?", "options": ["A language", "A bird", "A game", "A planet"], "correctAnswer": 0},
  {"id": 2, "question": "Who made it?", "options": ["Google", "Apple", "IBM", "Sun"], "correctAnswer": 0}
]`

func TestGenerateQuestionsValidBatch(t *testing.T) {
	srv := completionServer(t, validBatch)
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	batch, err := c.GenerateQuestions(context.Background(), "test-key", "some syllabus text", 2)
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("got %d questions, want 2", len(batch))
	}
	for i, q := range batch {
		if q.ID != i+1 {
			t.Errorf("question %d has ID %d, want %d", i, q.ID, i+1)
		}
		if len(q.Options) != 4 {
			t.Errorf("question %d has %d options", i, len(q.Options))
		}
	}
}

func TestGenerateQuestionsStripsCodeFences(t *testing.T) {
	srv := completionServer(t, "```json\n"+validBatch+"\n```")
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	batch, err := c.GenerateQuestions(context.Background(), "test-key", "text", 2)
	if err != nil {
		t.Fatalf("fenced content should still parse: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("got %d questions, want 2", len(batch))
	}
}

func TestGenerateQuestionsNonJSONContent(t *testing.T) {
	srv := completionServer(t, "Sorry, I cannot help with that.")
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	_, err := c.GenerateQuestions(context.Background(), "test-key", "text", 3)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("got %v, want ErrMalformedResponse", err)
	}
}

func TestGenerateQuestionsShapeViolations(t *testing.T) {
	cases := map[string]string{
		"correct index out of range": `[{"id":1,"question":"Q?","options":["a","b","c","d"],"correctAnswer":4}]`,
		"three options":              `[{"id":1,"question":"Q?","options":["a","b","c"],"correctAnswer":0}]`,
		"duplicate options":          `[{"id":1,"question":"Q?","options":["a","a","c","d"],"correctAnswer":0}]`,
		"empty question":             `[{"id":1,"question":"","options":["a","b","c","d"],"correctAnswer":0}]`,
		"unknown field":              `[{"id":1,"question":"Q?","options":["a","b","c","d"],"correctAnswer":0,"hint":"x"}]`,
		"empty array":                `[]`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			srv := completionServer(t, content)
			defer srv.Close()

			c := NewClient(srv.URL, "test-model")
			if _, err := c.GenerateQuestions(context.Background(), "test-key", "text", 1); !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("got %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestGenerateQuestionsEmptyContent(t *testing.T) {
	srv := completionServer(t, "   ")
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	if _, err := c.GenerateQuestions(context.Background(), "test-key", "text", 1); !errors.Is(err, ErrNoContent) {
		t.Fatalf("got %v, want ErrNoContent", err)
	}
}

func TestGenerateQuestionsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	if _, err := c.GenerateQuestions(context.Background(), "bad-key", "text", 1); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("got %v, want ErrRequestFailed", err)
	}
}

func TestBuildPromptTruncates(t *testing.T) {
	long := strings.Repeat("x", maxPromptChars+5000)
	prompt := buildPrompt(long, 5)
	if len(prompt) > maxPromptChars+2000 {
		t.Fatalf("prompt length %d suggests text was not truncated", len(prompt))
	}
	if !strings.Contains(prompt, "Generate 5 multiple-choice questions") {
		t.Fatal("prompt missing question count")
	}
}
