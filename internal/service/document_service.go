package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/optimum-study/optimum-backend/internal/config"
	"github.com/optimum-study/optimum-backend/internal/extractor"
	"github.com/rs/zerolog"
)

// Sentinel errors for document uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

const pdfMIMEType = "application/pdf"

// DocumentService turns an uploaded syllabus PDF into normalized plain text
// ready for question generation. Files are processed in memory and never
// written to disk.
type DocumentService struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(cfg *config.Config, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		cfg: cfg,
		log: log.With().Str("component", "document_service").Logger(),
	}
}

// ExtractText validates the upload and extracts its text content.
func (s *DocumentService) ExtractText(file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if contentType != pdfMIMEType {
		return "", fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedFileType, contentType, pdfMIMEType)
	}

	if header.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	// The extractor needs random access, so the upload is buffered in full.
	// Size is already capped above.
	buf, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(buf)) > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: body exceeds %d bytes", ErrFileTooLarge, s.cfg.MaxUploadBytes)
	}

	text, err := extractor.Text(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		s.log.Warn().Err(err).Str("filename", header.Filename).Msg("Document extraction failed")
		return "", err
	}

	s.log.Info().
		Str("filename", header.Filename).
		Int("chars", len(text)).
		Msg("Document text extracted")
	return text, nil
}
