// Package plaintext provides a boundary-aware fixed-size chunking strategy.
package plaintext

import (
	"context"
	"strings"

	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.ChunkerStrategy = (*Chunker)(nil)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 800

// DefaultOverlap is the default number of overlapping runes between
// adjacent chunks (20% of the default chunk size).
const DefaultOverlap = 160

// boundarySlack is the fraction of the window searched backwards for a
// sentence or line boundary before giving up and cutting mid-word.
const boundarySlack = 0.25

// Chunker splits prose into overlapping rune windows, preferring to cut
// at sentence or line boundaries when one falls inside the window's tail.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in runes.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between windows in runes.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a plaintext chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Name returns the strategy name.
func (c *Chunker) Name() string {
	return "plaintext"
}

// Chunk splits the text into ordered, overlapping drafts.
// Empty or whitespace-only text yields no drafts.
func (c *Chunker) Chunk(_ context.Context, text string) ([]driven.ChunkDraft, error) {
	runes := []rune(text)
	if len(strings.TrimSpace(text)) == 0 {
		return nil, nil
	}

	estimated := (len(runes) / (c.chunkSize - c.overlap)) + 1
	drafts := make([]driven.ChunkDraft, 0, estimated)

	start := 0
	for start < len(runes) {
		end := start + c.chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = adjustToBoundary(runes, start, end, c.chunkSize)
		}

		content := strings.TrimSpace(string(runes[start:end]))
		if content != "" {
			drafts = append(drafts, driven.ChunkDraft{
				Text:   content,
				Offset: start,
			})
		}

		if end == len(runes) {
			break
		}

		next := end - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return drafts, nil
}

// adjustToBoundary walks backwards from end looking for a sentence or
// line boundary within the window's tail slack. Returns the position just
// after the boundary, or the original end when no boundary is close enough.
func adjustToBoundary(runes []rune, start, end, chunkSize int) int {
	slack := int(float64(chunkSize) * boundarySlack)
	limit := end - slack
	if limit < start+1 {
		limit = start + 1
	}

	for i := end - 1; i >= limit; i-- {
		if isBoundary(runes, i) {
			return i + 1
		}
	}
	return end
}

// isBoundary reports whether position i ends a sentence or line.
func isBoundary(runes []rune, i int) bool {
	switch runes[i] {
	case '\n':
		return true
	case '.', '!', '?':
		// Sentence terminators only count when followed by whitespace,
		// so "3.14" and "v1.2" stay intact.
		return i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t')
	default:
		return false
	}
}
