package services

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
)

// chunkSeparator joins chunk texts in the assembled context.
const chunkSeparator = "\n\n"

// AssembleContext builds bounded prompt context from a retrieval result.
//
// Chunks are taken greedily in score order; a chunk that would overflow
// the budget is skipped whole, never truncated, and later smaller chunks
// may still fit. Confidence is the rounded mean similarity of the
// included chunks on a 0-100 scale, with negative similarities floored
// to zero before averaging.
func AssembleContext(result domain.RetrievalResult, maxContextChars int) domain.AssembledContext {
	if maxContextChars <= 0 || result.IsEmpty() {
		return domain.AssembledContext{}
	}

	var (
		builder    strings.Builder
		sources    []string
		seenSource = make(map[string]bool)
		used       int
		scoreSum   float64
		included   int
	)

	for _, sc := range result.Chunks {
		size := utf8.RuneCountInString(sc.Chunk.Text)
		if included > 0 {
			size += utf8.RuneCountInString(chunkSeparator)
		}
		if used+size > maxContextChars {
			continue
		}

		if included > 0 {
			builder.WriteString(chunkSeparator)
		}
		builder.WriteString(sc.Chunk.Text)
		used += size
		included++

		scoreSum += math.Max(sc.Similarity, 0)
		if sc.Filename != "" && !seenSource[sc.Filename] {
			seenSource[sc.Filename] = true
			sources = append(sources, sc.Filename)
		}
	}

	if included == 0 {
		return domain.AssembledContext{}
	}

	confidence := int(math.Round(100 * scoreSum / float64(included)))
	if confidence > 100 {
		confidence = 100
	}
	if confidence < 0 {
		confidence = 0
	}

	return domain.AssembledContext{
		Text:           builder.String(),
		Sources:        sources,
		Confidence:     confidence,
		ChunksIncluded: included,
	}
}
