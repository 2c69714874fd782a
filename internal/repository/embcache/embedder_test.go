package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/db"
	"github.com/docsift/docsift/internal/domain"
)

type mockEmbedder struct {
	calls     int
	lastTexts []string
	err       error
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.calls++
	m.lastTexts = texts
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{float32(len(texts[i])), 1}
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: 3 * len(texts),
		TotalTokens:  3 * len(texts),
	}, nil
}

// mockStore is an in-memory KV store. It records the TTLs passed to
// SetWithTTL per key.
type mockStore struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := m.Set(ctx, key, value); err != nil {
		return err
	}
	m.ttls[key] = ttl
	return nil
}

func TestEmbedBatch_MissThenHit(t *testing.T) {
	inner := &mockEmbedder{}
	cache := New(inner, newMockStore(), 0, nil, zap.NewNop())
	ctx := context.Background()

	first, err := cache.EmbedBatch(ctx, []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.calls)
	}
	if first.TotalTokens != 6 {
		t.Errorf("first call tokens = %d, want 6", first.TotalTokens)
	}

	second, err := cache.EmbedBatch(ctx, []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("cached call must not reach the provider, got %d calls", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("cached call tokens = %d, want 0", second.TotalTokens)
	}
	for i := range first.Embeddings {
		for j := range first.Embeddings[i] {
			if first.Embeddings[i][j] != second.Embeddings[i][j] {
				t.Fatalf("cached vector %d differs from original", i)
			}
		}
	}
}

func TestEmbedBatch_PartialHitEmbedsOnlyMisses(t *testing.T) {
	inner := &mockEmbedder{}
	cache := New(inner, newMockStore(), 0, nil, zap.NewNop())
	ctx := context.Background()

	if _, err := cache.EmbedBatch(ctx, []string{"known"}); err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}

	result, err := cache.EmbedBatch(ctx, []string{"fresh", "known"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 inner calls, got %d", inner.calls)
	}
	if len(inner.lastTexts) != 1 || inner.lastTexts[0] != "fresh" {
		t.Errorf("provider received %v, want only the miss", inner.lastTexts)
	}
	if len(result.Embeddings) != 2 || result.Embeddings[0] == nil || result.Embeddings[1] == nil {
		t.Errorf("result must carry vectors for every input: %v", result.Embeddings)
	}
}

func TestEmbedBatch_StoreFailuresDegradeToProvider(t *testing.T) {
	inner := &mockEmbedder{}
	s := newMockStore()
	s.getErr = errors.New("redis down")
	s.setErr = errors.New("redis down")
	cache := New(inner, s, 0, nil, zap.NewNop())

	result, err := cache.EmbedBatch(context.Background(), []string{"text"})
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected provider fallback, got %d calls", inner.calls)
	}
	if len(result.Embeddings) != 1 {
		t.Errorf("expected 1 vector, got %d", len(result.Embeddings))
	}
}

func TestEmbedBatch_StoresWithTTL(t *testing.T) {
	inner := &mockEmbedder{}
	s := newMockStore()
	cache := New(inner, s, 24*time.Hour, nil, zap.NewNop())

	if _, err := cache.EmbedBatch(context.Background(), []string{"expiring"}); err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(s.ttls) != 1 {
		t.Fatalf("expected 1 entry stored with a TTL, got %d", len(s.ttls))
	}
	for key, ttl := range s.ttls {
		if ttl != 24*time.Hour {
			t.Errorf("entry %s stored with ttl %v, want 24h", key, ttl)
		}
	}
}

func TestEmbedBatch_ZeroTTLStoresWithoutExpiration(t *testing.T) {
	inner := &mockEmbedder{}
	s := newMockStore()
	cache := New(inner, s, 0, nil, zap.NewNop())

	if _, err := cache.EmbedBatch(context.Background(), []string{"permanent"}); err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(s.ttls) != 0 {
		t.Errorf("zero ttl must use plain Set, got %d TTL entries", len(s.ttls))
	}
	if len(s.data) != 1 {
		t.Errorf("expected 1 cached entry, got %d", len(s.data))
	}
}

func TestEmbedBatch_InnerErrorPropagates(t *testing.T) {
	inner := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	cache := New(inner, newMockStore(), 0, nil, zap.NewNop())

	_, err := cache.EmbedBatch(context.Background(), []string{"text"})
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 3.125}

	out, err := bytesToVector(vectorToBytes(vec))
	if err != nil {
		t.Fatalf("bytesToVector: %v", err)
	}
	if len(out) != len(vec) {
		t.Fatalf("length %d, want %d", len(out), len(vec))
	}
	for i := range vec {
		if out[i] != vec[i] {
			t.Errorf("out[%d] = %f, want %f", i, out[i], vec[i])
		}
	}

	if _, err := bytesToVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated payload")
	}
}
