package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/testcraft-cli/internal/logger"
)

// Retriever finds the chunks most similar to a query. It embeds the
// query, asks the vector index for the top k hits and hydrates the
// winning chunks from the document store.
type Retriever struct {
	docStore  driven.DocumentStore
	embedding driven.EmbeddingService
	index     driven.VectorIndex
}

// NewRetriever creates a new retriever.
func NewRetriever(
	docStore driven.DocumentStore,
	embedding driven.EmbeddingService,
	index driven.VectorIndex,
) *Retriever {
	return &Retriever{
		docStore:  docStore,
		embedding: embedding,
		index:     index,
	}
}

// Retrieve returns up to k chunks scored against the query, best match
// first. Hits scoring below floor are dropped. The result never contains
// duplicate chunk IDs.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int, floor float64) (*domain.RetrievalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	embedding, err := r.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.index.Query(ctx, embedding, k, nil)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	logger.Debug("Retrieved %d hits for query (k=%d, floor=%.2f)", len(hits), k, floor)

	result := &domain.RetrievalResult{}
	seen := make(map[string]bool, len(hits))
	for _, hit := range hits {
		if hit.Similarity < floor || seen[hit.ChunkID] {
			continue
		}
		seen[hit.ChunkID] = true

		chunk, err := r.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			// Index and store can drift briefly during a delete; a
			// missing chunk is dropped, anything else is fatal.
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Indexed chunk %s missing from store, skipping", hit.ChunkID)
				continue
			}
			return nil, fmt.Errorf("hydrate chunk %s: %w", hit.ChunkID, err)
		}

		result.Chunks = append(result.Chunks, domain.ScoredChunk{
			Chunk:      *chunk,
			Filename:   hit.Filename,
			Similarity: hit.Similarity,
		})
	}

	return result, nil
}
