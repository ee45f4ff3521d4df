package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/optimum-study/optimum-backend/internal/llm"
	"github.com/optimum-study/optimum-backend/internal/model"
	"github.com/optimum-study/optimum-backend/internal/response"
	"github.com/optimum-study/optimum-backend/internal/service"
	"github.com/optimum-study/optimum-backend/internal/validator"
)

// GenerationHandler handles AI question generation.
type GenerationHandler struct {
	generationService *service.GenerationService
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generationService *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{generationService: generationService}
}

// Generate godoc
// POST /api/v1/generate
// Produces a validated batch of multiple-choice questions from document text.
// The three upstream failure classes map to distinct error codes so the
// client can show an actionable message for each.
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req model.GenerateQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions, err := h.generationService.Generate(c.Request.Context(), req.APIKey, req.Text, req.Count)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyText):
			response.Fail(c, http.StatusBadRequest, response.ErrEmptyText)
		case errors.Is(err, service.ErrMissingAPIKey):
			response.Fail(c, http.StatusBadRequest, response.ErrMissingAPIKey)
		case errors.Is(err, llm.ErrNoContent):
			response.Fail(c, http.StatusBadGateway, response.ErrNoContent)
		case errors.Is(err, llm.ErrMalformedResponse):
			response.Fail(c, http.StatusBadGateway, response.ErrMalformedAIResponse)
		case errors.Is(err, llm.ErrRequestFailed):
			response.Fail(c, http.StatusBadGateway, response.ErrGenerationFailed)
		default:
			response.Fail(c, http.StatusBadGateway, response.ErrGenerationFailed)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}
