package ingest

import (
	"context"

	"github.com/docsift/docsift/internal/domain"
)

// Embedder vectorizes chunk texts for index construction.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// Document is one extracted document ready for ingestion.
type Document struct {
	ID    string
	Pages []domain.Page
}

// Summary reports what an ingestion produced.
type Summary struct {
	Documents   int `json:"documents"`
	Chunks      int `json:"chunks"`
	TotalTokens int `json:"total_tokens"`
}
