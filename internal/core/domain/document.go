package domain

import (
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// DocumentState tracks a document through the ingest pipeline.
type DocumentState string

// Document processing states.
const (
	// DocumentPending means the document is registered but not yet indexed.
	DocumentPending DocumentState = "pending"

	// DocumentProcessed means chunking, embedding and indexing completed.
	DocumentProcessed DocumentState = "processed"

	// DocumentFailed means the ingest pipeline failed; FailureReason is set.
	DocumentFailed DocumentState = "failed"
)

// IsValid returns true if the state is recognised.
func (s DocumentState) IsValid() bool {
	switch s {
	case DocumentPending, DocumentProcessed, DocumentFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the state is a pipeline end state.
func (s DocumentState) IsTerminal() bool {
	return s == DocumentProcessed || s == DocumentFailed
}

// String returns the string representation.
func (s DocumentState) String() string {
	return string(s)
}

// Document represents an uploaded document tracked by the registry.
// Documents own their chunks: deleting a document removes every chunk
// it produced from both the store and the vector index.
type Document struct {
	// ID is the unique identifier, derived from the filename.
	ID string

	// Filename is the original upload filename.
	Filename string

	// Extension is the lowercase filename extension including the dot.
	Extension string

	// SizeBytes is the length of the extracted text in bytes.
	SizeBytes int64

	// Format is the chunking format mapped from the extension.
	Format DocumentFormat

	// State is the current processing state.
	State DocumentState

	// FailureReason describes why ingest failed. Empty unless State is Failed.
	FailureReason string

	// ChunkIDs lists the chunks owned by this document, in position order.
	ChunkIDs []string

	// CreatedAt is when the document was first uploaded.
	CreatedAt time.Time

	// UpdatedAt is when the document record last changed.
	UpdatedAt time.Time
}

// Chunk represents a bounded span of a document's text, the atomic unit
// of embedding and retrieval. Chunks are immutable once created and die
// with their document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Text is the chunk content.
	Text string

	// Position is the ordinal position within the document.
	Position int

	// Offset is the rune offset of the chunk start in the document text,
	// kept for traceability back to the source.
	Offset int

	// Embedding is the vector representation for similarity search.
	Embedding []float32
}

// DocumentIDFromFilename derives a stable document ID from a filename.
// The extension is dropped and the stem is lowercased with runs of
// non-alphanumeric characters collapsed to single hyphens, so re-uploading
// the same file always maps to the same document.
func DocumentIDFromFilename(filename string) string {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	var builder strings.Builder
	builder.Grow(len(stem))

	var prevHyphen bool
	for _, r := range strings.ToLower(stem) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			prevHyphen = false
			continue
		}
		if !prevHyphen && builder.Len() > 0 {
			builder.WriteByte('-')
			prevHyphen = true
		}
	}

	return strings.Trim(builder.String(), "-")
}
