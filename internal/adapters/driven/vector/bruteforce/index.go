package bruteforce

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry is one indexed vector with its attribution metadata. The
// embedding is unit-normalised; norm zero vectors are stored as-is and
// never match anything.
type entry struct {
	chunkID    string
	documentID string
	filename   string
	embedding  []float32

	// seq preserves insertion order for deterministic tie-breaking.
	seq uint64
}

// Index is an exact-scan in-memory vector index. Mutations take the
// write lock so a concurrent query sees a document's entries either all
// present or all absent.
type Index struct {
	mu      sync.RWMutex
	entries []entry
	nextSeq uint64
	closed  bool

	// dims is the embedding dimensionality, fixed by the first insert.
	// Entries and queries with a different length are rejected rather
	// than silently scoring 0.
	dims int
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Upsert replaces all entries for a document with the given entries.
func (ix *Index) Upsert(ctx context.Context, documentID string, entries []driven.VectorEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if documentID == "" {
		return domain.ErrInvalidInput
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return domain.ErrIndexUnavailable
	}
	if err := validateDims(ix.dims, entries); err != nil {
		return err
	}

	ix.removeDocumentLocked(documentID)
	for _, e := range entries {
		ix.insertLocked(e)
	}
	return nil
}

// DeleteByDocument removes every entry for the document.
func (ix *Index) DeleteByDocument(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return domain.ErrIndexUnavailable
	}

	ix.removeDocumentLocked(documentID)
	return nil
}

// Query finds the k most similar entries to the query embedding.
func (ix *Index) Query(ctx context.Context, embedding []float32, k int, filter *driven.QueryFilter) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	query := normalise(embedding)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.closed {
		return nil, domain.ErrIndexUnavailable
	}
	if ix.dims != 0 && len(embedding) != ix.dims {
		return nil, fmt.Errorf("%w: query embedding has %d dimensions, index holds %d", domain.ErrInvalidInput, len(embedding), ix.dims)
	}

	allowed := filterSet(filter)

	type scored struct {
		entry      *entry
		similarity float64
	}
	var candidates []scored //nolint:prealloc // filter size unknown
	for i := range ix.entries {
		e := &ix.entries[i]
		if allowed != nil && !allowed[e.documentID] {
			continue
		}
		candidates = append(candidates, scored{entry: e, similarity: dot(query, e.embedding)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].similarity != candidates[j].similarity {
			return candidates[i].similarity > candidates[j].similarity
		}
		return candidates[i].entry.seq < candidates[j].entry.seq
	})

	if k > len(candidates) {
		k = len(candidates)
	}

	hits := make([]driven.VectorHit, 0, k)
	for _, c := range candidates[:k] {
		hits = append(hits, driven.VectorHit{
			ChunkID:    c.entry.chunkID,
			DocumentID: c.entry.documentID,
			Filename:   c.entry.filename,
			Similarity: c.similarity,
		})
	}
	return hits, nil
}

// Rebuild discards the index contents and loads the given entries.
func (ix *Index) Rebuild(ctx context.Context, entries []driven.VectorEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return domain.ErrIndexUnavailable
	}
	if err := validateDims(0, entries); err != nil {
		return err
	}

	ix.entries = ix.entries[:0]
	ix.nextSeq = 0
	ix.dims = 0
	for _, e := range entries {
		ix.insertLocked(e)
	}
	return nil
}

// Size returns the number of entries currently indexed.
func (ix *Index) Size(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.closed {
		return 0, domain.ErrIndexUnavailable
	}
	return len(ix.entries), nil
}

// Close releases the index. Further calls fail with ErrIndexUnavailable.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = nil
	ix.closed = true
	return nil
}

// insertLocked appends an entry with a normalised embedding. Caller
// holds the write lock.
func (ix *Index) insertLocked(e driven.VectorEntry) {
	if ix.dims == 0 {
		ix.dims = len(e.Embedding)
	}
	ix.entries = append(ix.entries, entry{
		chunkID:    e.ChunkID,
		documentID: e.DocumentID,
		filename:   e.Filename,
		embedding:  normalise(e.Embedding),
		seq:        ix.nextSeq,
	})
	ix.nextSeq++
}

// removeDocumentLocked drops all entries for a document. Caller holds
// the write lock.
func (ix *Index) removeDocumentLocked(documentID string) {
	kept := ix.entries[:0]
	for _, e := range ix.entries {
		if e.documentID != documentID {
			kept = append(kept, e)
		}
	}
	ix.entries = kept
}

// validateDims checks every entry against the index dimensionality
// before any mutation, so a rejected batch leaves the index untouched.
// A dims of 0 means the batch itself fixes the dimensionality.
func validateDims(dims int, entries []driven.VectorEntry) error {
	for _, e := range entries {
		if len(e.Embedding) == 0 {
			return fmt.Errorf("%w: empty embedding for chunk %s", domain.ErrInvalidInput, e.ChunkID)
		}
		if dims == 0 {
			dims = len(e.Embedding)
			continue
		}
		if len(e.Embedding) != dims {
			return fmt.Errorf("%w: embedding for chunk %s has %d dimensions, index holds %d", domain.ErrInvalidInput, e.ChunkID, len(e.Embedding), dims)
		}
	}
	return nil
}

// filterSet converts a query filter into a membership set. Nil means
// no filtering.
func filterSet(filter *driven.QueryFilter) map[string]bool {
	if filter == nil || len(filter.DocumentIDs) == 0 {
		return nil
	}
	set := make(map[string]bool, len(filter.DocumentIDs))
	for _, id := range filter.DocumentIDs {
		set[id] = true
	}
	return set
}

// normalise returns a unit-length copy of the vector. Zero vectors are
// returned as a zero copy so they score 0 against everything.
func normalise(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// dot computes the dot product of two vectors, which equals cosine
// similarity for unit vectors. Lengths are equal by construction, the
// index rejects mismatched dimensionality up front.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
