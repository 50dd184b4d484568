package domain

// GenerationMode selects the instruction template for generation.
// The retrieval and scoring mechanics are identical across modes; only
// the prompt and the expected output shape differ.
type GenerationMode string

// Available generation modes.
const (
	// ModeChat produces a conversational answer grounded in retrieved context.
	ModeChat GenerationMode = "chat"

	// ModeTestCase produces structured test-case text with a commented script.
	ModeTestCase GenerationMode = "testcase"
)

// IsValid returns true if the mode is recognised.
func (m GenerationMode) IsValid() bool {
	return m == ModeChat || m == ModeTestCase
}

// String returns the string representation.
func (m GenerationMode) String() string {
	return string(m)
}

// GenerationResult is the outcome of a chat or test-case generation call.
// Results are ephemeral and never persisted.
type GenerationResult struct {
	// Answer is the completion provider's response, verbatim.
	Answer string

	// Sources are the unique filenames of documents whose chunks were
	// included in the prompt context. Order is not significant.
	Sources []string

	// Confidence is the retrieval-confidence score in [0,100].
	//
	// This is a proxy for how well the retrieved context matched the
	// request, NOT a measure of the answer's correctness. It is 0 when
	// no context was retrieved (empty corpus, all hits below the floor).
	Confidence int

	// Mode is the generation mode that produced this result.
	Mode GenerationMode
}

// AssembledContext is the bounded prompt context built from a retrieval
// result, together with its attribution and confidence.
type AssembledContext struct {
	// Text is the concatenated chunk text, bounded by the assembler budget.
	Text string

	// Sources are the unique filenames of the included chunks.
	Sources []string

	// Confidence is round(100 x mean similarity of included chunks),
	// clamped to [0,100]; 0 when no chunks were included.
	Confidence int

	// ChunksIncluded is how many chunks made it into the budget.
	ChunksIncluded int
}
