package driving

import (
	"context"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
)

// IngestService runs the upload pipeline: register, chunk, embed, index.
type IngestService interface {
	// Upload ingests extracted document text under the given filename.
	// Re-uploading the same filename replaces the previous document and
	// its index entries. The returned document is in a terminal state:
	// Processed on success, Failed (with reason) when the pipeline broke.
	Upload(ctx context.Context, filename, text string) (*domain.Document, error)
}

// RegistryService exposes the document registry to external actors.
type RegistryService interface {
	// List returns all tracked documents ordered by creation time.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Remove deletes a document, cascading to its chunks and index
	// entries. Removing an unknown document returns domain.ErrNotFound;
	// index entries already absent are treated as consistent state.
	Remove(ctx context.Context, id string) error
}
