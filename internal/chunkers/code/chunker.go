// Package code provides a declaration-aware chunking strategy for source
// code and BDD scenario text.
package code

import (
	"context"
	"strings"

	"github.com/custodia-labs/testcraft-cli/internal/chunkers/plaintext"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.ChunkerStrategy = (*Chunker)(nil)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 1000

// declarationPrefixes start a new block at top level. Covers the
// languages accepted as Code format plus Gherkin keywords for BDD text.
var declarationPrefixes = []string{
	"def ",
	"class ",
	"func ",
	"function ",
	"async def ",
}

// scenarioPrefixes start a new block at any indentation.
var scenarioPrefixes = []string{
	"Feature:",
	"Background:",
	"Scenario:",
	"Scenario Outline:",
}

// Chunker splits code into blocks at function, class and scenario
// boundaries, packing adjacent blocks into windows up to the chunk size.
// Oversized blocks fall back to boundary-aware plaintext splitting so a
// long function still fits the embedding input.
type Chunker struct {
	chunkSize int
	fallback  *plaintext.Chunker
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

// New creates a code chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(c)
	}
	c.fallback = plaintext.New(plaintext.WithChunkSize(c.chunkSize))
	return c
}

// Name returns the strategy name.
func (c *Chunker) Name() string {
	return "code"
}

// block is a declaration-delimited span of the source.
type block struct {
	text   string
	offset int // rune offset of the block start
}

// Chunk splits the text at declaration boundaries, packing blocks into
// windows so that a function body stays in one chunk whenever it fits.
func (c *Chunker) Chunk(ctx context.Context, text string) ([]driven.ChunkDraft, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	blocks := splitBlocks(text)

	var drafts []driven.ChunkDraft
	var window strings.Builder
	windowOffset := 0

	flush := func() {
		content := strings.TrimRight(window.String(), "\n")
		if strings.TrimSpace(content) != "" {
			drafts = append(drafts, driven.ChunkDraft{Text: content, Offset: windowOffset})
		}
		window.Reset()
	}

	for _, blk := range blocks {
		blkLen := len([]rune(blk.text))

		if blkLen > c.chunkSize {
			flush()
			sub, err := c.fallback.Chunk(ctx, blk.text)
			if err != nil {
				return nil, err
			}
			for _, d := range sub {
				drafts = append(drafts, driven.ChunkDraft{
					Text:   d.Text,
					Offset: blk.offset + d.Offset,
				})
			}
			continue
		}

		if window.Len() > 0 && len([]rune(window.String()))+blkLen > c.chunkSize {
			flush()
		}
		if window.Len() == 0 {
			windowOffset = blk.offset
		} else {
			window.WriteString("\n")
		}
		window.WriteString(blk.text)
	}
	flush()

	return drafts, nil
}

// splitBlocks cuts the source at declaration and scenario boundaries.
// Leading code before the first declaration (imports, module docstrings)
// forms its own block.
func splitBlocks(text string) []block {
	lines := strings.Split(text, "\n")

	var blocks []block
	var current strings.Builder
	currentOffset := 0
	started := false
	lineOffset := 0

	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			blocks = append(blocks, block{text: current.String(), offset: currentOffset})
		}
		current.Reset()
		started = false
	}

	for _, line := range lines {
		if isBlockStart(line) {
			flush()
		}
		if !started {
			currentOffset = lineOffset
			started = true
		} else {
			current.WriteString("\n")
		}
		current.WriteString(line)
		lineOffset += len([]rune(line)) + 1
	}
	flush()

	return blocks
}

// isBlockStart reports whether the line opens a new declaration or
// scenario. Declarations only count at top level so nested helpers stay
// with their parent; Gherkin keywords count at any indentation.
func isBlockStart(line string) bool {
	for _, prefix := range declarationPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	trimmed := strings.TrimLeft(line, " \t")
	for _, prefix := range scenarioPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
