// Package chunker splits per-page document text into overlapping
// fixed-size windows tagged with provenance.
package chunker

import (
	"fmt"
	"strings"

	"github.com/docsift/docsift/internal/domain"
)

// Chunker windows page text into chunks of at most Size runes, with
// consecutive windows overlapping by Overlap runes. Chunks never span
// pages, so every chunk keeps a page-accurate citation.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker. Overlap must be smaller than size, otherwise
// the window would never advance.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits one document's pages into chunks. Sequence numbering
// starts at next and increases by one per chunk in page-then-window
// order; the value following the last assigned id is returned so a
// multi-document corpus keeps a single dense global sequence.
//
// Empty or whitespace-only pages yield no chunks.
func (c *Chunker) Chunk(docID string, pages []domain.Page, next int) ([]domain.Chunk, int) {
	var chunks []domain.Chunk
	for _, p := range pages {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		for _, window := range c.windows(text) {
			chunks = append(chunks, domain.Chunk{
				DocumentID: docID,
				Page:       p.Number,
				Seq:        next,
				Text:       window,
			})
			next++
		}
	}
	return chunks, next
}

// windows slices text into overlapping runs of at most c.size runes.
// The final partial window is kept even when shorter than the full size.
func (c *Chunker) windows(text string) []string {
	runes := []rune(text)
	if len(runes) <= c.size {
		return []string{text}
	}

	stride := c.size - c.overlap
	var out []string
	for start := 0; start < len(runes); start += stride {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}
