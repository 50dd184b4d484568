package driving

import (
	"context"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
)

// GenerationService answers questions and produces test cases grounded
// in retrieved document context.
type GenerationService interface {
	// Chat answers a natural-language question using retrieved context.
	// With an empty corpus the answer carries zero confidence and no
	// sources, and does not claim document grounding.
	Chat(ctx context.Context, question string) (*domain.GenerationResult, error)

	// GenerateTestCase produces structured test-case text for a feature
	// description, grounded in retrieved documentation and code structure.
	GenerateTestCase(ctx context.Context, description string) (*domain.GenerationResult, error)
}

// ExecutionService runs generated test scripts in the sandbox.
type ExecutionService interface {
	// Run executes a script. When lang is empty the language is detected
	// from the script content; an undetectable language fails with
	// domain.ErrUnsupportedScript before any process is spawned.
	Run(ctx context.Context, script string, lang domain.ScriptLanguage) (*domain.ExecutionResult, error)
}
