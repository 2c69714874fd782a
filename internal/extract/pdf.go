package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docsift/docsift/internal/domain"
)

// PDF extracts per-page text from PDF documents.
type PDF struct{}

// Extract implements Extractor. Pages that yield no text (scanned
// images, extraction failures on a single page) are skipped rather than
// failing the whole document.
func (PDF) Extract(data []byte) ([]domain.Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var pages []domain.Page
	for num := 1; num <= reader.NumPage(); num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, domain.Page{Number: num, Text: text})
	}
	return pages, nil
}
