package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driving"
	"github.com/custodia-labs/testcraft-cli/internal/logger"
)

// Ensure ExecutionService implements the interface.
var _ driving.ExecutionService = (*ExecutionService)(nil)

// defaultRunTimeout bounds a script run when the config does not say
// otherwise.
const defaultRunTimeout = 30 * time.Second

// ExecutionService runs generated test scripts through the sandbox.
// Script outcomes, including crashes and timeouts, are data in the
// result; an error return means the run could not be attempted at all.
type ExecutionService struct {
	sandbox driven.Sandbox
	timeout time.Duration
}

// NewExecutionService creates a new execution service. A zero timeout
// falls back to the default.
func NewExecutionService(sandbox driven.Sandbox, timeout time.Duration) *ExecutionService {
	if timeout <= 0 {
		timeout = defaultRunTimeout
	}
	return &ExecutionService{
		sandbox: sandbox,
		timeout: timeout,
	}
}

// Run executes a script in the sandbox. An empty lang triggers detection
// from the script content; an undetectable or unsupported language fails
// with ErrUnsupportedScript before any process is spawned.
func (s *ExecutionService) Run(ctx context.Context, script string, lang domain.ScriptLanguage) (*domain.ExecutionResult, error) {
	if strings.TrimSpace(script) == "" {
		return nil, fmt.Errorf("%w: empty script", domain.ErrInvalidInput)
	}

	if lang == "" {
		detected, ok := domain.DetectScriptLanguage(script)
		if !ok {
			return nil, fmt.Errorf("%w: language not declared and not detectable", domain.ErrUnsupportedScript)
		}
		lang = detected
	}
	if !lang.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedScript, lang)
	}

	runID := uuid.New().String()[:8]
	logger.Section("Script Execution")
	logger.Debug("Run %s: %s script, %d bytes, timeout %s", runID, lang, len(script), s.timeout)

	result, err := s.sandbox.Execute(ctx, script, lang, domain.ExecutionLimits{Timeout: s.timeout})
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	switch {
	case result.TimedOut:
		logger.Warn("Run %s timed out after %s", runID, result.Duration.Round(time.Millisecond))
	case result.Success:
		logger.Info("Run %s passed in %s", runID, result.Duration.Round(time.Millisecond))
	default:
		logger.Info("Run %s failed with code %d in %s", runID, result.ReturnCode, result.Duration.Round(time.Millisecond))
	}

	return result, nil
}
