package service

import (
	"context"
	"errors"
	"strings"

	"github.com/optimum-study/optimum-backend/internal/config"
	"github.com/optimum-study/optimum-backend/internal/llm"
	"github.com/optimum-study/optimum-backend/internal/model"
	"github.com/rs/zerolog"
)

// Precondition errors, caught before any remote call is made.
var (
	ErrMissingAPIKey = errors.New("no API key supplied and no server default configured")
	ErrEmptyText     = errors.New("document text is empty")
)

// GenerationService orchestrates question generation: precondition checks,
// credential fallback and the single bounded remote call.
type GenerationService struct {
	cfg    *config.Config
	client *llm.Client
	log    zerolog.Logger
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(cfg *config.Config, client *llm.Client, log zerolog.Logger) *GenerationService {
	return &GenerationService{
		cfg:    cfg,
		client: client,
		log:    log.With().Str("component", "generation_service").Logger(),
	}
}

// Generate produces a validated batch of count questions from document text.
// The caller's key wins over the server default. Exactly one remote call is
// made; failures are returned to the caller, never retried here.
func (s *GenerationService) Generate(ctx context.Context, apiKey, text string, count int) ([]model.Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if apiKey == "" {
		apiKey = s.cfg.OpenRouterAPIKey
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.GenerationTimeout)
	defer cancel()

	batch, err := s.client.GenerateQuestions(ctx, apiKey, text, count)
	if err != nil {
		s.log.Warn().Err(err).Int("count", count).Msg("Question generation failed")
		return nil, err
	}

	s.log.Info().Int("count", len(batch)).Msg("Question batch generated")
	return batch, nil
}
