package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/optimum-study/optimum-backend/internal/middleware"
	"github.com/optimum-study/optimum-backend/internal/model"
	"github.com/optimum-study/optimum-backend/internal/quiz"
	"github.com/optimum-study/optimum-backend/internal/response"
	"github.com/optimum-study/optimum-backend/internal/service"
	"github.com/optimum-study/optimum-backend/internal/validator"
)

// QuizHandler handles quiz session endpoints. Sessions work for both guests
// and authenticated users; only the latter get their results persisted.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Start godoc
// POST /api/v1/quiz/sessions
// Seeds a new session from a generated question batch.
func (h *QuizHandler) Start(c *gin.Context) {
	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.quizService.Start(currentUserID(c), req.Questions)
	if err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusCreated, view)
}

// Get godoc
// GET /api/v1/quiz/sessions/:session_id
// Returns the current session view.
func (h *QuizHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	view, err := h.quizService.Get(id, currentUserID(c))
	if err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// Select godoc
// POST /api/v1/quiz/sessions/:session_id/select
// Records a pending choice for the current question. Re-selection overwrites.
func (h *QuizHandler) Select(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req model.SelectOptionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.quizService.Select(id, currentUserID(c), *req.Option)
	if err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// Submit godoc
// POST /api/v1/quiz/sessions/:session_id/submit
// Locks in the pending choice and reveals correctness.
func (h *QuizHandler) Submit(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	view, err := h.quizService.Submit(id, currentUserID(c))
	if err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// Advance godoc
// POST /api/v1/quiz/sessions/:session_id/advance
// Moves to the next question, or completes the session on the last one.
func (h *QuizHandler) Advance(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	view, err := h.quizService.Advance(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// Delete godoc
// DELETE /api/v1/quiz/sessions/:session_id
// Discards the session from any state.
func (h *QuizHandler) Delete(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.quizService.Reset(id, currentUserID(c)); err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// currentUserID returns the authenticated user's ID or nil for guests.
func currentUserID(c *gin.Context) *uuid.UUID {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return nil
	}
	id := claims.UserID
	return &id
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func failQuiz(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, quiz.ErrInvalidOption):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidOption)
	case errors.Is(err, quiz.ErrNoSelection):
		response.Fail(c, http.StatusConflict, response.ErrNoSelection)
	case errors.Is(err, quiz.ErrIllegalTransition):
		response.Fail(c, http.StatusConflict, response.ErrIllegalTransition)
	case errors.Is(err, quiz.ErrEmptyBatch), errors.Is(err, quiz.ErrMalformedBatch):
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
