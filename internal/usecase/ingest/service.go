// Package ingest builds the session corpus: chunk the extracted pages,
// embed the chunks, fit the index, and install everything atomically.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/chunker"
	"github.com/docsift/docsift/internal/corpus"
	"github.com/docsift/docsift/internal/domain"
	"github.com/docsift/docsift/internal/index"
)

// Service handles corpus ingestion. Re-ingestion replaces the previous
// corpus wholesale; there is no incremental update.
type Service struct {
	chunker  *chunker.Chunker
	embedder Embedder
	store    *corpus.Store
	logger   *zap.Logger
}

// New creates an ingestion service.
func New(c *chunker.Chunker, e Embedder, s *corpus.Store, logger *zap.Logger) *Service {
	return &Service{chunker: c, embedder: e, store: s, logger: logger}
}

// Ingest chunks and indexes the given documents, replacing the current
// corpus. Documents are processed in input order so chunk sequence ids
// are deterministic for identical input.
func (s *Service) Ingest(ctx context.Context, docs []Document) (Summary, error) {
	var chunks []domain.Chunk
	next := 0
	for _, doc := range docs {
		docChunks, n := s.chunker.Chunk(doc.ID, doc.Pages, next)
		chunks = append(chunks, docChunks...)
		next = n
		s.logger.Info("Chunked document",
			zap.String("document", doc.ID),
			zap.Int("pages", len(doc.Pages)),
			zap.Int("chunks", len(docChunks)),
		)
	}

	if len(chunks) == 0 {
		return Summary{}, fmt.Errorf("no extractable text in %d documents: %w", len(docs), domain.ErrEmptyCorpus)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	result, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return Summary{}, fmt.Errorf("embed corpus: %w", err)
	}

	idx, err := index.Build(result.Embeddings)
	if err != nil {
		return Summary{}, fmt.Errorf("build index: %w", err)
	}

	if err := s.store.Replace(chunks, idx); err != nil {
		return Summary{}, fmt.Errorf("install corpus: %w", err)
	}

	s.logger.Info("Corpus built",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(chunks)),
		zap.Int("dimensions", idx.Dim()),
	)

	return Summary{
		Documents:   len(docs),
		Chunks:      len(chunks),
		TotalTokens: result.TotalTokens,
	}, nil
}
