package driven

import (
	"context"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite; this is the source of truth the vector index is
// rebuilt from.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document, replacing any existing ones.
	SaveChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document in position order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// DeleteDocument removes a document and its chunks atomically.
	// Deleting an absent document is a no-op.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents ordered by creation time.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// AllChunks streams every stored chunk with its owning filename,
	// used to rebuild the vector index at startup.
	AllChunks(ctx context.Context) ([]ChunkRecord, error)
}

// ChunkRecord pairs a stored chunk with its owning document's filename.
type ChunkRecord struct {
	// Chunk is the stored chunk, embedding included.
	Chunk domain.Chunk

	// Filename is the owning document's filename.
	Filename string
}
