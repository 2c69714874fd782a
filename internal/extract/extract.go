// Package extract adapts document bytes into per-page text, the sole
// input shape the chunker consumes.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/docsift/docsift/internal/domain"
)

// Extractor yields ordered per-page text for one document. Pages with no
// extractable text are omitted; page numbers keep their 1-based position.
type Extractor interface {
	Extract(data []byte) ([]domain.Page, error)
}

// ForName picks an extractor by file extension. Everything that is not a
// PDF is treated as plain text.
func ForName(name string) Extractor {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return PDF{}
	}
	return Plain{}
}

// Plain extracts plain-text documents. Form feeds act as page breaks;
// a document without them is a single page.
type Plain struct{}

// Extract implements Extractor.
func (Plain) Extract(data []byte) ([]domain.Page, error) {
	parts := strings.Split(string(data), "\f")

	var pages []domain.Page
	for i, part := range parts {
		text := strings.TrimSpace(part)
		if text == "" {
			continue
		}
		pages = append(pages, domain.Page{Number: i + 1, Text: text})
	}
	return pages, nil
}
