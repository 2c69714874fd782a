package domain

// Evidence is a retrieved chunk enriched with a similarity score and a
// bounded display excerpt. Assembled fresh for every query and handed to
// reasoning stages as grounding material; never mutated afterwards.
type Evidence struct {
	DocumentID string  `json:"document_id"`
	Page       int     `json:"page"`
	ChunkSeq   int     `json:"chunk_seq"`
	Score      float32 `json:"score"`
	Text       string  `json:"text"`
	Excerpt    string  `json:"excerpt"`
}
