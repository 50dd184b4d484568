package driven

import (
	"context"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
)

// ChunkerStrategy splits document text into overlapping windows for one
// document format. Strategies produce complete, restartable sequences -
// never lazy iterators - so a failed embed pass can re-chunk cheaply.
type ChunkerStrategy interface {
	// Name returns the strategy name for logging and registration.
	Name() string

	// Chunk splits the text into ordered drafts. Empty text yields an
	// empty sequence, which is valid - not an error.
	Chunk(ctx context.Context, text string) ([]ChunkDraft, error)
}

// ChunkDraft is a chunk before identity and embedding are assigned.
type ChunkDraft struct {
	// Text is the chunk content.
	Text string

	// Offset is the rune offset of the chunk start in the source text.
	Offset int
}

// ChunkerRegistry dispatches document formats to chunking strategies.
// Extensible without modifying the chunking loop: new formats register
// their own strategy.
type ChunkerRegistry interface {
	// ForFormat returns the strategy for a format.
	// Returns domain.ErrUnsupportedFormat when no strategy is registered.
	ForFormat(format domain.DocumentFormat) (ChunkerStrategy, error)

	// Register binds a strategy to a format, replacing any previous one.
	Register(format domain.DocumentFormat, strategy ChunkerStrategy)
}
