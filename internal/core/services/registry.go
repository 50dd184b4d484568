package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driving"
	"github.com/custodia-labs/testcraft-cli/internal/logger"
)

// Ensure RegistryService implements the interface.
var _ driving.RegistryService = (*RegistryService)(nil)

// RegistryService exposes the document registry: listing, lookup and
// removal with index cleanup.
type RegistryService struct {
	docStore driven.DocumentStore
	index    driven.VectorIndex
}

// NewRegistryService creates a new registry service.
func NewRegistryService(docStore driven.DocumentStore, index driven.VectorIndex) *RegistryService {
	return &RegistryService{
		docStore: docStore,
		index:    index,
	}
}

// List returns all tracked documents ordered by creation time.
func (s *RegistryService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *RegistryService) Get(ctx context.Context, id string) (*domain.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty document ID", domain.ErrInvalidInput)
	}
	return s.docStore.GetDocument(ctx, id)
}

// Remove deletes a document, its chunks and its index entries. The index
// is cleared first so a query racing the delete never surfaces chunks
// that are about to disappear; entries already absent are consistent
// state, not an error.
func (s *RegistryService) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: empty document ID", domain.ErrInvalidInput)
	}

	if _, err := s.docStore.GetDocument(ctx, id); err != nil {
		return err
	}

	if err := s.index.DeleteByDocument(ctx, id); err != nil {
		return fmt.Errorf("remove index entries for %s: %w", id, err)
	}

	if err := s.docStore.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}

	logger.Info("Removed document %s", id)
	return nil
}
