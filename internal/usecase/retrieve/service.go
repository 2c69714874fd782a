// Package retrieve answers similarity queries against the corpus and
// assembles the hits into evidence for the reasoning stages.
package retrieve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/corpus"
	"github.com/docsift/docsift/internal/domain"
)

// Service retrieves the most similar chunks for a query.
type Service struct {
	store        *corpus.Store
	embedder     Embedder
	topK         int
	minScore     float32
	excerptChars int
	logger       *zap.Logger
}

// New creates a retrieval service.
func New(store *corpus.Store, e Embedder, topK int, minScore float32, excerptChars int, logger *zap.Logger) *Service {
	return &Service{
		store:        store,
		embedder:     e,
		topK:         topK,
		minScore:     minScore,
		excerptChars: excerptChars,
		logger:       logger,
	}
}

// Retrieve embeds the query and returns the top matching chunks as
// evidence, best first. An empty corpus yields no evidence without
// calling the embedder. Hits below the score threshold are dropped.
func (s *Service) Retrieve(ctx context.Context, query string) ([]domain.Evidence, error) {
	view := s.store.View()
	if view.Len() == 0 {
		return nil, nil
	}

	result, err := s.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(result.Embeddings) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query: %w",
			len(result.Embeddings), domain.ErrEmbeddingProviderError)
	}

	hits, err := view.Search(result.Embeddings[0], s.topK)
	if err != nil {
		return nil, fmt.Errorf("search corpus: %w", err)
	}

	evidence := make([]domain.Evidence, 0, len(hits))
	for _, h := range hits {
		if h.Score < s.minScore {
			continue
		}
		chunk, err := view.Lookup(h.Seq)
		if err != nil {
			return nil, fmt.Errorf("resolve hit: %w", err)
		}
		evidence = append(evidence, domain.Evidence{
			DocumentID: chunk.DocumentID,
			Page:       chunk.Page,
			ChunkSeq:   chunk.Seq,
			Score:      h.Score,
			Text:       chunk.Text,
			Excerpt:    excerpt(chunk.Text, s.excerptChars),
		})
	}

	s.logger.Debug("Retrieved evidence",
		zap.Int("hits", len(hits)),
		zap.Int("kept", len(evidence)),
	)
	return evidence, nil
}

// excerpt bounds text to n runes, appending an ellipsis when truncated.
func excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
