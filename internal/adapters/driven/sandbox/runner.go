package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/testcraft-cli/internal/logger"
)

// Ensure Runner implements the interface.
var _ driven.Sandbox = (*Runner)(nil)

// Default execution limits.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultMaxOutputBytes = 64 * 1024
)

// truncationMarker is appended to a captured stream that hit its cap.
const truncationMarker = "\n... [output truncated]"

// interpreters maps each supported language to its interpreter binary
// and script filename.
var interpreters = map[domain.ScriptLanguage]struct {
	binary   string
	filename string
}{
	domain.LanguagePython: {binary: "python3", filename: "script.py"},
	domain.LanguageShell:  {binary: "sh", filename: "script.sh"},
}

// Config holds configuration for the sandbox runner.
type Config struct {
	// Timeout is the default wall-clock limit (default: 30s).
	Timeout time.Duration

	// MaxOutputBytes is the default per-stream capture cap (default: 64KiB).
	MaxOutputBytes int
}

// Runner executes scripts as local subprocesses with isolation applied
// per run.
type Runner struct {
	timeout        time.Duration
	maxOutputBytes int
}

// NewRunner creates a sandbox runner.
func NewRunner(cfg Config) *Runner {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxOutputBytes == 0 {
		cfg.MaxOutputBytes = DefaultMaxOutputBytes
	}
	return &Runner{
		timeout:        cfg.Timeout,
		maxOutputBytes: cfg.MaxOutputBytes,
	}
}

// SupportedLanguages returns the languages this sandbox can run.
func (r *Runner) SupportedLanguages() []domain.ScriptLanguage {
	return []domain.ScriptLanguage{domain.LanguagePython, domain.LanguageShell}
}

// Execute runs the script and reports the outcome. The error return is
// reserved for the sandbox itself failing: unsupported language or a
// missing interpreter.
func (r *Runner) Execute(ctx context.Context, script string, lang domain.ScriptLanguage, limits domain.ExecutionLimits) (*domain.ExecutionResult, error) {
	interp, ok := interpreters[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedScript, lang)
	}

	binary, err := exec.LookPath(interp.binary)
	if err != nil {
		return nil, fmt.Errorf("locating %s interpreter: %w", lang, err)
	}

	if limits.Timeout == 0 {
		limits.Timeout = r.timeout
	}
	if limits.MaxOutputBytes == 0 {
		limits.MaxOutputBytes = r.maxOutputBytes
	}

	// Fresh working directory per run, removed when the run ends.
	workDir, err := os.MkdirTemp("", "testcraft-run-*")
	if err != nil {
		return nil, fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	scriptPath := filepath.Join(workDir, interp.filename)
	if err := os.WriteFile(scriptPath, []byte(script), 0600); err != nil {
		return nil, fmt.Errorf("writing script: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, limits.Timeout)
	defer cancel()

	stdout := newCappedBuffer(limits.MaxOutputBytes)
	stderr := newCappedBuffer(limits.MaxOutputBytes)

	cmd := exec.CommandContext(runCtx, binary, scriptPath)
	cmd.Dir = workDir
	cmd.Env = scrubbedEnv(workDir)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		// Take down the whole process group so grandchildren cannot
		// outlive the timeout.
		return killProcessGroup(cmd)
	}
	cmd.WaitDelay = 2 * time.Second

	logger.Debug("sandbox: running %s script (timeout %s)", lang, limits.Timeout)

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	result := &domain.ExecutionResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
		result.ReturnCode = domain.TimeoutReturnCode
		result.Stderr = appendLine(result.Stderr, fmt.Sprintf("script timed out after %s", limits.Timeout))
	case runErr == nil:
		result.Success = true
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ReturnCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("running script: %w", runErr)
		}
	}

	logger.Debug("sandbox: finished in %s (code %d, timed out %t)", duration, result.ReturnCode, result.TimedOut)

	return result, nil
}

// scrubbedEnv builds the minimal environment a script runs with. HOME
// and TMPDIR point into the ephemeral work directory so scripts cannot
// read the invoking user's files through them.
func scrubbedEnv(workDir string) []string {
	return []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + workDir,
		"TMPDIR=" + workDir,
		"LANG=C.UTF-8",
	}
}

// appendLine appends a line to captured output, separating with a
// newline when needed.
func appendLine(out, line string) string {
	if out == "" {
		return line
	}
	if out[len(out)-1] != '\n' {
		return out + "\n" + line
	}
	return out + line
}

// cappedBuffer captures a stream up to a byte cap. Writes past the cap
// are counted but discarded, and the marker notes the truncation.
type cappedBuffer struct {
	mu        sync.Mutex
	buf       []byte
	max       int
	truncated bool
}

func newCappedBuffer(max int) *cappedBuffer {
	return &cappedBuffer{max: max}
}

// Write implements io.Writer. It never returns an error so the child
// process is not killed by a full capture buffer.
func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := b.max - len(b.buf)
	if remaining > 0 {
		n := len(p)
		if n > remaining {
			n = remaining
			b.truncated = true
		}
		b.buf = append(b.buf, p[:n]...)
	} else if len(p) > 0 {
		b.truncated = true
	}
	return len(p), nil
}

// String returns the captured output with a truncation marker when the
// cap was hit.
func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.truncated {
		return string(b.buf) + truncationMarker
	}
	return string(b.buf)
}
