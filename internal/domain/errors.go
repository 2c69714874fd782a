package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoInput signals an empty user request.
	ErrNoInput = errors.New("no input")
	// ErrEmptyCorpus signals an attempt to build an index over zero chunks.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrNoDocuments signals a summarization request against an empty corpus.
	ErrNoDocuments = errors.New("no documents")
	// ErrNoEvidence signals a synthesis stage invoked without evidence.
	ErrNoEvidence = errors.New("no evidence")
	// ErrCorpusDesync signals that chunk order and index vector order diverged.
	// Treated as a defect: it propagates loudly, never downgraded.
	ErrCorpusDesync = errors.New("corpus/index desynchronized")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrReasoningProviderError signals a reasoning provider failure.
	ErrReasoningProviderError = errors.New("reasoning provider error")
)

// DanglingReferenceError reports a search hit whose sequence id resolves
// to no chunk. It wraps ErrCorpusDesync: the condition indicates internal
// inconsistency, not an expected absence of data.
type DanglingReferenceError struct {
	Seq  int
	Size int
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s: hit references chunk %d in a corpus of %d chunks",
		ErrCorpusDesync.Error(), e.Seq, e.Size)
}

func (e *DanglingReferenceError) Unwrap() error { return ErrCorpusDesync }

// NewDanglingReference creates a dangling chunk reference error.
func NewDanglingReference(seq, size int) error {
	return &DanglingReferenceError{Seq: seq, Size: size}
}
