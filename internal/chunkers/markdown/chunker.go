// Package markdown provides a heading-aware chunking strategy.
package markdown

import (
	"context"
	"strings"

	"github.com/custodia-labs/testcraft-cli/internal/chunkers/plaintext"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.ChunkerStrategy = (*Chunker)(nil)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 800

// Chunker splits markdown into sections at heading boundaries, packing
// adjacent sections into windows up to the chunk size. Sections larger
// than a window fall back to boundary-aware plaintext splitting.
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

// New creates a markdown chunker with the given options.
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
	return "markdown"
}

// section is a heading-delimited span of the document.
type section struct {
	text   string
	offset int // rune offset of the section start
}

// Chunk splits the text at heading boundaries, packing sections into
// windows. A heading always starts a new window so retrieved chunks keep
// their titles.
func (c *Chunker) Chunk(ctx context.Context, text string) ([]driven.ChunkDraft, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	sections := splitSections(text)

	var drafts []driven.ChunkDraft
	var window strings.Builder
	windowOffset := 0

	flush := func() {
		content := strings.TrimSpace(window.String())
		if content != "" {
			drafts = append(drafts, driven.ChunkDraft{Text: content, Offset: windowOffset})
		}
		window.Reset()
	}

	for _, sec := range sections {
		secLen := len([]rune(sec.text))

		// Oversized section: flush the window and fall back to
		// boundary-aware splitting inside the section.
		if secLen > c.chunkSize {
			flush()
			sub, err := c.fallback.Chunk(ctx, sec.text)
			if err != nil {
				return nil, err
			}
			for _, d := range sub {
				drafts = append(drafts, driven.ChunkDraft{
					Text:   d.Text,
					Offset: sec.offset + d.Offset,
				})
			}
			continue
		}

		if window.Len() > 0 && len([]rune(window.String()))+secLen > c.chunkSize {
			flush()
		}
		if window.Len() == 0 {
			windowOffset = sec.offset
		} else {
			window.WriteString("\n")
		}
		window.WriteString(sec.text)
	}
	flush()

	return drafts, nil
}

// splitSections cuts the document at heading lines. Text before the
// first heading forms its own section.
func splitSections(text string) []section {
	lines := strings.Split(text, "\n")

	var sections []section
	var current strings.Builder
	currentOffset := 0
	started := false
	lineOffset := 0

	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			sections = append(sections, section{text: current.String(), offset: currentOffset})
		}
		current.Reset()
		started = false
	}

	for _, line := range lines {
		if isHeading(line) {
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

	return sections
}

// isHeading reports whether the line is an ATX heading.
func isHeading(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(trimmed, "#") {
		return false
	}
	rest := strings.TrimLeft(trimmed, "#")
	return rest == "" || strings.HasPrefix(rest, " ")
}
