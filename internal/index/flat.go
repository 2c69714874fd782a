// Package index provides an exact inner-product nearest-neighbor index
// over a small in-memory vector set. Correctness over scale: every query
// scans the full corpus, there is no approximation.
package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/docsift/docsift/internal/domain"
)

// Hit is one search result: the vector's position in build order and its
// similarity to the query.
type Hit struct {
	Seq   int
	Score float32
}

// Flat is a flat inner-product index. Vectors are unit-normalized at
// build time so inner product equals cosine similarity. Read-only after
// Build; a rebuild produces a fresh Flat.
type Flat struct {
	dim     int
	vectors [][]float32
}

// Build fits an index over the given vectors. Position i in the input
// becomes Seq i in search results. Fails on an empty input or when the
// vectors disagree on dimension.
func Build(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("zero-dimension vector at position 0: %w", domain.ErrVectorDimMismatch)
	}

	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, index has %d: %w",
				i, len(v), dim, domain.ErrVectorDimMismatch)
		}
		normalized[i] = normalize(v)
	}

	return &Flat{dim: dim, vectors: normalized}, nil
}

// Len returns the number of indexed vectors.
func (f *Flat) Len() int {
	if f == nil {
		return 0
	}
	return len(f.vectors)
}

// Dim returns the vector dimension.
func (f *Flat) Dim() int {
	if f == nil {
		return 0
	}
	return f.dim
}

// Search returns up to topK nearest vectors, highest similarity first,
// ties broken by ascending Seq for determinism. Searching a nil or empty
// index returns no hits: callers treat "no evidence" as a normal state.
func (f *Flat) Search(query []float32, topK int) ([]Hit, error) {
	if f == nil || len(f.vectors) == 0 || topK <= 0 {
		return nil, nil
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("query has dimension %d, index has %d: %w",
			len(query), f.dim, domain.ErrVectorDimMismatch)
	}

	q := normalize(query)
	hits := make([]Hit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = Hit{Seq: i, Score: dot(q, v)}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Seq < hits[j].Seq
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// normalize returns a unit-length copy. A zero vector is returned as a
// zero-filled copy, scoring 0 against everything.
func normalize(v []float32) []float32 {
	var sq float64
	for _, x := range v {
		sq += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sq == 0 {
		return out
	}
	inv := float32(1 / math.Sqrt(sq))
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}
