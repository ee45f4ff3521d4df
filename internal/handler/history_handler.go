package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/optimum-study/optimum-backend/internal/middleware"
	"github.com/optimum-study/optimum-backend/internal/response"
	"github.com/optimum-study/optimum-backend/internal/service"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// HistoryHandler serves a user's persisted quiz history.
type HistoryHandler struct {
	resultService *service.ResultService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(resultService *service.ResultService) *HistoryHandler {
	return &HistoryHandler{resultService: resultService}
}

// List godoc
// GET /api/v1/history?page=1&per_page=20
// Returns the authenticated user's results, newest first.
func (h *HistoryHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	results, err := h.resultService.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	page := parsePositive(c.Query("page"), 1)
	perPage := parsePositive(c.Query("per_page"), defaultPerPage)
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	total := len(results)
	totalPages := (total + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	response.SuccessWithPagination(c, http.StatusOK,
		gin.H{"results": results[start:end]},
		&response.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: total,
			TotalPages: totalPages,
		})
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
