package retrieve

import (
	"context"

	"github.com/docsift/docsift/internal/domain"
)

// Embedder vectorizes the query text for similarity search.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
