package domain

// ScoredChunk pairs a retrieved chunk with its similarity to the query.
type ScoredChunk struct {
	// Chunk is the retrieved chunk.
	Chunk Chunk

	// Filename is the owning document's filename, carried for attribution.
	Filename string

	// Similarity is the cosine similarity to the query embedding (0-1).
	Similarity float64
}

// RetrievalResult is the ordered outcome of a retrieval query.
// Chunks are sorted by descending similarity, contain no duplicate chunk
// IDs, and never exceed the requested k. Results are ephemeral - produced
// per query and never persisted.
type RetrievalResult struct {
	// Chunks are the retrieved chunks, best match first.
	Chunks []ScoredChunk
}

// IsEmpty returns true if nothing was retrieved.
func (r RetrievalResult) IsEmpty() bool {
	return len(r.Chunks) == 0
}

// Filenames returns the unique owning filenames in first-seen order.
func (r RetrievalResult) Filenames() []string {
	seen := make(map[string]bool, len(r.Chunks))
	var names []string
	for _, sc := range r.Chunks {
		if sc.Filename == "" || seen[sc.Filename] {
			continue
		}
		seen[sc.Filename] = true
		names = append(names, sc.Filename)
	}
	return names
}
