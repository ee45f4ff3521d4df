// Package llm turns extracted syllabus text into a validated multiple-choice
// question batch with a single OpenRouter chat-completion call.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/optimum-study/optimum-backend/internal/model"
)

// maxPromptChars bounds the document text sent upstream so the prompt stays
// inside the model's context window. Truncation is silent.
const maxPromptChars = 15000

// Generation failure classes. Handlers map each to a distinct user-facing
// error code so a credential problem is never confused with a model-output
// problem.
var (
	ErrRequestFailed     = errors.New("generation request failed")
	ErrNoContent         = errors.New("no content received from model")
	ErrMalformedResponse = errors.New("failed to parse model response")
)

// Client issues question-generation requests against an OpenAI-compatible
// chat-completions endpoint. It holds no per-request state; the credential
// travels with each call because keys are caller-supplied.
type Client struct {
	baseURL string
	model   string
}

// NewClient creates a generation client for the given endpoint and model.
func NewClient(baseURL, model string) *Client {
	return &Client{baseURL: baseURL, model: model}
}

// GenerateQuestions makes exactly one completion call and returns a validated
// batch of count questions with IDs renumbered 1..count. No retries.
func (c *Client) GenerateQuestions(ctx context.Context, apiKey, text string, count int) ([]model.Question, error) {
	cfg := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(text, count),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrNoContent
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, ErrNoContent
	}

	batch, err := parseBatch(content)
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("%w: empty question array", ErrMalformedResponse)
	}

	// Renumber so IDs are 1..N regardless of what the model emitted.
	for i := range batch {
		batch[i].ID = i + 1
		if err := batch[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrMalformedResponse, i+1, err)
		}
	}
	return batch, nil
}

// parseBatch strips any code-fence markup (the model sometimes ignores the
// raw-JSON instruction) and decodes the question array strictly.
func parseBatch(content string) ([]model.Question, error) {
	cleaned := strings.ReplaceAll(content, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.DisallowUnknownFields()

	var batch []model.Question
	if err := dec.Decode(&batch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return batch, nil
}

func buildPrompt(text string, count int) string {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	var sb strings.Builder
	sb.WriteString("You are an expert educator.\n")
	sb.WriteString("Analyze the following text content from a syllabus or textbook.\n")
	fmt.Fprintf(&sb, "Generate %d multiple-choice questions based on the key concepts in the text.\n\n", count)
	sb.WriteString("Return the response ONLY as a valid JSON array of objects.\n")
	sb.WriteString("Each object must strictly follow this structure:\n")
	fmt.Fprintf(&sb, `{
  "id": number (1 to %d),
  "question": "string",
  "options": ["option1", "option2", "option3", "option4"],
  "correctAnswer": number (0-3 index of the correct option)
}
`, count)
	sb.WriteString("\nDo not include any markdown formatting like ```json. Just the raw JSON array.\n\n")
	sb.WriteString("Text Content:\n")
	sb.WriteString(text)
	return sb.String()
}
