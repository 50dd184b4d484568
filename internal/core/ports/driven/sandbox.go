package driven

import (
	"context"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
)

// Sandbox runs untrusted generated scripts in isolation.
//
// Implementations must treat the script as hostile: separate process,
// ephemeral working directory, scrubbed environment, hard wall-clock
// timeout with process-group termination, and bounded output capture.
// A run never mutates the document store or the vector index.
type Sandbox interface {
	// Execute runs the script and reports the outcome.
	//
	// Script failures (non-zero exit, crash, timeout) are reported inside
	// ExecutionResult with Success=false, not as an error. The error
	// return is reserved for the sandbox itself failing to run at all -
	// an unsupported language (domain.ErrUnsupportedScript, checked
	// before any process is spawned) or a missing interpreter.
	Execute(ctx context.Context, script string, lang domain.ScriptLanguage, limits domain.ExecutionLimits) (*domain.ExecutionResult, error)

	// SupportedLanguages returns the languages this sandbox can run.
	SupportedLanguages() []domain.ScriptLanguage
}
