// Package corpus holds the ingested chunk list together with the index
// fitted over it, for one session.
package corpus

import (
	"fmt"
	"sync/atomic"

	"github.com/docsift/docsift/internal/domain"
	"github.com/docsift/docsift/internal/index"
)

// snapshot pairs a chunk list with the index fitted over it. The pair is
// immutable; Replace installs a whole new snapshot.
type snapshot struct {
	chunks []domain.Chunk
	idx    *index.Flat
}

// Store owns the corpus for one session. Rebuilds replace the snapshot
// atomically: readers always observe a consistent chunk/index pair and
// never a partially rebuilt state.
type Store struct {
	snap atomic.Pointer[snapshot]
}

// NewStore creates an empty Store.
func NewStore() *Store {
	s := &Store{}
	s.snap.Store(&snapshot{})
	return s
}

// Replace installs a new chunk list and fitted index wholesale,
// discarding all prior state. Chunks must carry dense 0-based sequence
// ids matching their slice position, and the index size must equal the
// chunk count; either violation is a desynchronization defect.
func (s *Store) Replace(chunks []domain.Chunk, idx *index.Flat) error {
	for i, c := range chunks {
		if c.Seq != i {
			return fmt.Errorf("chunk at position %d carries seq %d: %w", i, c.Seq, domain.ErrCorpusDesync)
		}
	}
	if idx.Len() != len(chunks) {
		return fmt.Errorf("index holds %d vectors for %d chunks: %w",
			idx.Len(), len(chunks), domain.ErrCorpusDesync)
	}

	s.snap.Store(&snapshot{chunks: chunks, idx: idx})
	return nil
}

// View returns a consistent read-only view of the current corpus. All
// lookups made through one View resolve against the same snapshot even
// if a re-ingestion happens concurrently.
func (s *Store) View() View {
	return View{snap: s.snap.Load()}
}

// View is a read-only handle on one corpus snapshot.
type View struct {
	snap *snapshot
}

// Len returns the number of chunks in the snapshot.
func (v View) Len() int {
	return len(v.snap.chunks)
}

// Chunks returns the snapshot's chunk list in sequence order. Callers
// must treat the slice as read-only.
func (v View) Chunks() []domain.Chunk {
	return v.snap.chunks
}

// Search runs a nearest-neighbor query against the snapshot's index.
// An empty snapshot returns no hits.
func (v View) Search(query []float32, topK int) ([]index.Hit, error) {
	return v.snap.idx.Search(query, topK)
}

// Lookup resolves a sequence id back to its chunk. An out-of-range id is
// a dangling reference: the index and chunk list have diverged, and the
// error propagates as a hard failure.
func (v View) Lookup(seq int) (domain.Chunk, error) {
	if seq < 0 || seq >= len(v.snap.chunks) {
		return domain.Chunk{}, domain.NewDanglingReference(seq, len(v.snap.chunks))
	}
	return v.snap.chunks[seq], nil
}

// Stats aggregates per-document chunk, page, and character counts.
func (v View) Stats() map[string]domain.DocumentStats {
	stats := make(map[string]domain.DocumentStats)
	for _, c := range v.snap.chunks {
		st := stats[c.DocumentID]
		st.ChunkCount++
		if c.Page > st.PageCount {
			st.PageCount = c.Page
		}
		st.TotalChars += len(c.Text)
		stats[c.DocumentID] = st
	}
	return stats
}
