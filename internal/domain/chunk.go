package domain

// Page is one page of extracted document text, as delivered by a text
// extraction collaborator. Numbering is 1-based.
type Page struct {
	Number int
	Text   string
}

// Chunk is a bounded window of page text with document, page and sequence
// provenance. Immutable once created; downstream stages reference chunks,
// they never copy or rewrite them.
type Chunk struct {
	DocumentID string
	Page       int
	// Seq is the chunk's dense 0-based position in the corpus. It doubles
	// as the vector position inside the fitted index, so the two orderings
	// must never diverge.
	Seq  int
	Text string
}

// DocumentStats aggregates per-document corpus statistics.
type DocumentStats struct {
	ChunkCount int `json:"chunk_count"`
	PageCount  int `json:"page_count"`
	TotalChars int `json:"total_chars"`
}
