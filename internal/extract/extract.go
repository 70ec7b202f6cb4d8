// Package extract turns stored resume documents into bounded plain text for
// the scoring pipeline.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/docstore"
)

// maxResumeChars bounds extracted text so downstream prompts stay tractable.
const maxResumeChars = 8000

// ResumeText fetches and extracts plain text for a resume reference.
// It never fails: any error (unresolvable reference, unsupported format,
// store unavailable) degrades to an empty string with a warn log, because
// missing resume text lowers score quality but must not block scoring.
func ResumeText(ctx context.Context, store docstore.Store, ref string, log *zap.Logger) string {
	if ref == "" {
		return ""
	}

	data, contentType, err := store.Fetch(ctx, ref)
	if err != nil {
		log.Warn("resume fetch failed, scoring without resume text",
			zap.String("ref", ref), zap.Error(err))
		return ""
	}

	text, err := Text(contentType, data)
	if err != nil {
		log.Warn("resume text extraction failed, scoring without resume text",
			zap.String("ref", ref), zap.String("content_type", contentType), zap.Error(err))
		return ""
	}

	return Truncate(text, maxResumeChars)
}

// Text extracts plain text from document bytes based on content type.
func Text(contentType string, data []byte) (string, error) {
	switch normalizeContentType(contentType) {
	case "text/plain":
		return string(data), nil

	case "application/pdf":
		return pdfText(data)

	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return docxText(data)

	default:
		return "", fmt.Errorf("unsupported document type: %s", contentType)
	}
}

// Truncate bounds a string to limit characters, cutting on a rune boundary.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func normalizeContentType(contentType string) string {
	// Strip parameters like "; charset=utf-8"
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(strings.ToLower(contentType))
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
