package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/optimum-study/optimum-backend/internal/extractor"
	"github.com/optimum-study/optimum-backend/internal/response"
	"github.com/optimum-study/optimum-backend/internal/service"
)

// DocumentHandler handles syllabus upload and text extraction.
type DocumentHandler struct {
	documentService *service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Extract godoc
// POST /api/v1/documents/extract
// Accepts a multipart PDF upload and returns its normalized plain text.
func (h *DocumentHandler) Extract(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer file.Close()

	text, err := h.documentService.ExtractText(file, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusUnsupportedMediaType, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		case errors.Is(err, extractor.ErrEmptyDocument):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrEmptyDocument)
		default:
			// Unparsable uploads land here (truncated or non-PDF bytes with a
			// PDF content type).
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrUnsupportedFile)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"text":  text,
		"chars": len(text),
	})
}
