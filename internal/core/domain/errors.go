package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a document format that cannot be
	// mapped to a chunking strategy. Upload fails before any pipeline work.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmbeddingUnavailable indicates the embedding service failed or is
	// not configured. Partial embedding batches are never committed.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexUnavailable indicates the vector index is not configured or
	// rejected an operation. Index mutations failing with this error leave
	// the index in its pre-mutation state.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrGenerationFailed indicates the completion provider failed.
	// The caller receives this with zero confidence and no sources; the
	// core never retries silently.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrUnsupportedScript indicates an unrecognised or absent script
	// language marker. Execution fails before any process is spawned.
	ErrUnsupportedScript = errors.New("unsupported script language")

	// ErrExecutionTimeout indicates a sandboxed run exceeded its
	// wall-clock limit. Surfaced inside ExecutionResult, not propagated.
	ErrExecutionTimeout = errors.New("execution timed out")

	// ErrIngestInProgress indicates the document is already being ingested.
	ErrIngestInProgress = errors.New("ingest in progress")
)
