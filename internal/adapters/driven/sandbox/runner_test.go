package sandbox

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
)

func requireInterpreter(t *testing.T, binary string) {
	t.Helper()
	if _, err := exec.LookPath(binary); err != nil {
		t.Skipf("%s not available", binary)
	}
}

func TestRunner_SupportedLanguages(t *testing.T) {
	r := NewRunner(Config{})
	assert.ElementsMatch(t,
		[]domain.ScriptLanguage{domain.LanguagePython, domain.LanguageShell},
		r.SupportedLanguages(),
	)
}

func TestRunner_Execute_UnsupportedLanguage(t *testing.T) {
	r := NewRunner(Config{})

	_, err := r.Execute(context.Background(), "puts 'hi'", domain.ScriptLanguage("ruby"), domain.ExecutionLimits{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedScript)
}

func TestRunner_Execute_ShellSuccess(t *testing.T) {
	requireInterpreter(t, "sh")
	r := NewRunner(Config{})

	result, err := r.Execute(context.Background(), "echo OK", domain.LanguageShell, domain.ExecutionLimits{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "OK\n", result.Stdout)
	assert.Zero(t, result.ReturnCode)
	assert.False(t, result.TimedOut)
	assert.Greater(t, result.Duration, time.Duration(0))
}

func TestRunner_Execute_PythonSuccess(t *testing.T) {
	requireInterpreter(t, "python3")
	r := NewRunner(Config{})

	result, err := r.Execute(context.Background(), "print(2 + 2)", domain.LanguagePython, domain.ExecutionLimits{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "4\n", result.Stdout)
}

func TestRunner_Execute_NonZeroExit(t *testing.T) {
	requireInterpreter(t, "sh")
	r := NewRunner(Config{})

	result, err := r.Execute(context.Background(), "echo broken >&2; exit 3", domain.LanguageShell, domain.ExecutionLimits{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.ReturnCode)
	assert.Contains(t, result.Stderr, "broken")
}

func TestRunner_Execute_Timeout(t *testing.T) {
	requireInterpreter(t, "sh")
	r := NewRunner(Config{})

	start := time.Now()
	result, err := r.Execute(context.Background(), "sleep 30", domain.LanguageShell, domain.ExecutionLimits{
		Timeout: 200 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.False(t, result.Success)
	assert.True(t, result.TimedOut)
	assert.Equal(t, domain.TimeoutReturnCode, result.ReturnCode)
	assert.Contains(t, result.Stderr, "timed out")
}

func TestRunner_Execute_OutputTruncated(t *testing.T) {
	requireInterpreter(t, "python3")
	r := NewRunner(Config{})

	result, err := r.Execute(context.Background(), "print('x' * 100000)", domain.LanguagePython, domain.ExecutionLimits{
		MaxOutputBytes: 1024,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Stdout, truncationMarker)
	assert.LessOrEqual(t, len(result.Stdout), 1024+len(truncationMarker))
}

func TestRunner_Execute_ScrubbedEnvironment(t *testing.T) {
	requireInterpreter(t, "sh")
	t.Setenv("TESTCRAFT_SECRET", "leak-me")
	r := NewRunner(Config{})

	result, err := r.Execute(context.Background(), `echo "secret=${TESTCRAFT_SECRET:-unset}"`, domain.LanguageShell, domain.ExecutionLimits{})
	require.NoError(t, err)
	assert.Equal(t, "secret=unset\n", result.Stdout)
}

func TestRunner_Execute_FreshWorkingDirectory(t *testing.T) {
	requireInterpreter(t, "sh")
	r := NewRunner(Config{})

	// Each run writes a file; the next run must not see it.
	script := `[ -f marker ] && echo found || echo clean; touch marker`
	for i := 0; i < 2; i++ {
		result, err := r.Execute(context.Background(), script, domain.LanguageShell, domain.ExecutionLimits{})
		require.NoError(t, err)
		assert.Equal(t, "clean\n", result.Stdout)
	}
}

func TestCappedBuffer(t *testing.T) {
	b := newCappedBuffer(4)

	n, err := b.Write([]byte("abcdef"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "abcd"+truncationMarker, b.String())

	// Writes past the cap are still acknowledged.
	n, err = b.Write([]byte("gh"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
