package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driving"
	"github.com/custodia-labs/testcraft-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

const (
	// defaultEmbedBatchSize is how many chunks are embedded per API call.
	defaultEmbedBatchSize = 16

	// defaultEmbedRate throttles embedding API calls (batches per second).
	defaultEmbedRate = 4
)

// IngestService runs the upload pipeline: register the document, chunk
// its text, embed the chunks in rate-limited batches, persist them and
// replace the document's vector index entries.
type IngestService struct {
	docStore  driven.DocumentStore
	chunkers  driven.ChunkerRegistry
	embedding driven.EmbeddingService
	index     driven.VectorIndex

	limiter   *rate.Limiter
	batchSize int

	mu       sync.Mutex
	inflight map[string]bool
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	docStore driven.DocumentStore,
	chunkers driven.ChunkerRegistry,
	embedding driven.EmbeddingService,
	index driven.VectorIndex,
) *IngestService {
	return &IngestService{
		docStore:  docStore,
		chunkers:  chunkers,
		embedding: embedding,
		index:     index,
		limiter:   rate.NewLimiter(rate.Limit(defaultEmbedRate), 1),
		batchSize: defaultEmbedBatchSize,
	}
}

// SetBatchSize overrides the embedding batch size. Values below 1 are ignored.
func (s *IngestService) SetBatchSize(size int) {
	if size >= 1 {
		s.batchSize = size
	}
}

// Upload ingests extracted document text under the given filename.
// Re-uploading the same filename replaces the previous document. The
// returned document is terminal: Processed on success, Failed with a
// reason when the pipeline broke partway.
func (s *IngestService) Upload(ctx context.Context, filename, text string) (*domain.Document, error) {
	logger.Section("Document Ingest")

	id := domain.DocumentIDFromFilename(filename)
	if id == "" {
		return nil, fmt.Errorf("%w: filename %q yields no document ID", domain.ErrInvalidInput, filename)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	format, err := domain.FormatForExtension(ext)
	if err != nil {
		return nil, fmt.Errorf("map extension %q: %w", ext, err)
	}

	if err := s.acquire(id); err != nil {
		return nil, err
	}
	defer s.release(id)

	logger.Debug("Ingesting %s as %s (format: %s, %d bytes)", filename, id, format, len(text))

	doc := &domain.Document{
		ID:        id,
		Filename:  filepath.Base(filename),
		Extension: ext,
		SizeBytes: int64(len(text)),
		Format:    format,
		State:     domain.DocumentPending,
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("register document: %w", err)
	}

	chunks, err := s.chunkAndEmbed(ctx, doc, text)
	if err != nil {
		return s.markFailed(ctx, doc, err)
	}

	if err := s.docStore.SaveChunks(ctx, doc.ID, chunks); err != nil {
		return s.markFailed(ctx, doc, fmt.Errorf("store chunks: %w", err))
	}

	entries := make([]driven.VectorEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = driven.VectorEntry{
			ChunkID:    chunk.ID,
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			Embedding:  chunk.Embedding,
		}
	}
	if err := s.index.Upsert(ctx, doc.ID, entries); err != nil {
		return s.markFailed(ctx, doc, fmt.Errorf("index document: %w", err))
	}

	doc.State = domain.DocumentProcessed
	doc.FailureReason = ""
	doc.ChunkIDs = chunkIDs(chunks)
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("finalise document: %w", err)
	}

	logger.Info("Ingested %s: %d chunks", doc.ID, len(chunks))
	return doc, nil
}

// chunkAndEmbed splits the text and embeds every chunk in order-preserving
// batches. A batch failure aborts the whole pipeline: partial embeddings
// are never committed.
func (s *IngestService) chunkAndEmbed(ctx context.Context, doc *domain.Document, text string) ([]domain.Chunk, error) {
	strategy, err := s.chunkers.ForFormat(doc.Format)
	if err != nil {
		return nil, err
	}

	drafts, err := strategy.Chunk(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("chunk with %s strategy: %w", strategy.Name(), err)
	}
	logger.Debug("Chunked %s into %d chunks (%s strategy)", doc.ID, len(drafts), strategy.Name())

	chunks := make([]domain.Chunk, len(drafts))
	for i, draft := range drafts {
		chunks[i] = domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Text:       draft.Text,
			Position:   i,
			Offset:     draft.Offset,
		}
	}

	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("embedding throttle: %w", err)
		}

		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Text)
		}

		embeddings, err := s.embedding.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		for i, embedding := range embeddings {
			chunks[start+i].Embedding = embedding
		}
	}

	return chunks, nil
}

// markFailed records the failure on the document and returns the original
// error alongside the failed record.
func (s *IngestService) markFailed(ctx context.Context, doc *domain.Document, cause error) (*domain.Document, error) {
	logger.Warn("Ingest of %s failed: %v", doc.ID, cause)

	doc.State = domain.DocumentFailed
	doc.FailureReason = cause.Error()
	if saveErr := s.docStore.SaveDocument(ctx, doc); saveErr != nil {
		logger.Warn("Failed to record failure state for %s: %v", doc.ID, saveErr)
	}
	return doc, cause
}

// acquire takes the per-document ingest slot. Concurrent uploads of the
// same document fail fast instead of queueing.
func (s *IngestService) acquire(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight == nil {
		s.inflight = make(map[string]bool)
	}
	if s.inflight[id] {
		return fmt.Errorf("%w: %s", domain.ErrIngestInProgress, id)
	}
	s.inflight[id] = true
	return nil
}

func (s *IngestService) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)
}

func chunkIDs(chunks []domain.Chunk) []string {
	if len(chunks) == 0 {
		return nil
	}
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.ID
	}
	return ids
}
