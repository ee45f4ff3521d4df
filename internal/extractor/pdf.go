// Package extractor pulls plain text out of uploaded PDF documents.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyDocument is returned when a PDF yields no extractable text,
// typically an image-only scan. Callers treat this as a hard failure because
// there is nothing to feed the question generator.
var ErrEmptyDocument = errors.New("document contains no extractable text")

// Text extracts and normalizes the plain text of a PDF. The pdf library can
// panic on damaged cross-reference tables, so the call is fenced.
func Text(r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("read pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	body, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	text = Normalize(buf.String())
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

// Normalize collapses runs of whitespace into single spaces. Extracted PDF
// text is full of layout artifacts that would waste prompt budget.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
