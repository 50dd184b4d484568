package driven

import "context"

// VectorIndex provides similarity search over chunk embeddings.
// The index is a derived structure - always rebuildable from the
// DocumentStore and never the source of truth for document lifecycle.
//
// Mutations are atomic per document: a concurrent Query observes either
// the pre-mutation or the fully post-mutation state, never a half-inserted
// document.
type VectorIndex interface {
	// Upsert replaces all entries for a document with the given entries.
	Upsert(ctx context.Context, documentID string, entries []VectorEntry) error

	// DeleteByDocument removes every entry for the document.
	// Deleting a document with no entries is a no-op, not an error.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Query finds the k most similar entries to the query embedding.
	// Results are sorted by descending cosine similarity with ties broken
	// by insertion order; k is clamped to the index size. A nil filter
	// matches everything.
	Query(ctx context.Context, embedding []float32, k int, filter *QueryFilter) ([]VectorHit, error)

	// Rebuild discards the index contents and loads the given entries.
	// Used at startup to restore the index from the document store.
	Rebuild(ctx context.Context, entries []VectorEntry) error

	// Size returns the number of entries currently indexed.
	Size(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// VectorEntry is one indexed (embedding, chunk) pair plus the metadata
// needed for filtering and attribution.
type VectorEntry struct {
	// ChunkID is the chunk this entry represents.
	ChunkID string

	// DocumentID is the owning document.
	DocumentID string

	// Filename is the owning document's filename, carried for attribution.
	Filename string

	// Embedding is the chunk's vector representation.
	Embedding []float32
}

// QueryFilter restricts a query to a subset of the index.
type QueryFilter struct {
	// DocumentIDs limits hits to the given documents. Empty means all.
	DocumentIDs []string
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the owning document.
	DocumentID string

	// Filename is the owning document's filename.
	Filename string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
