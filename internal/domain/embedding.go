package domain

import "context"

// BatchEmbedder vectorizes texts in a single provider call. The mapping
// is deterministic for identical input, and vectors are expected to be
// unit-normalized so inner product equals cosine similarity.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// BatchEmbeddingResult carries the embedding vectors and token usage
// through the decorator chain. Embeddings[i] corresponds to texts[i].
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
