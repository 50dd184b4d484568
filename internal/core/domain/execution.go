package domain

import (
	"strings"
	"time"
)

// TimeoutReturnCode is the sentinel return code reported when a script
// is terminated for exceeding its wall-clock limit.
const TimeoutReturnCode = -1

// ScriptLanguage identifies the interpreter for a generated script.
type ScriptLanguage string

// Supported script languages.
const (
	// LanguagePython runs scripts with the python3 interpreter.
	LanguagePython ScriptLanguage = "python"

	// LanguageShell runs scripts with /bin/sh.
	LanguageShell ScriptLanguage = "shell"
)

// IsValid returns true if the language is recognised.
func (l ScriptLanguage) IsValid() bool {
	return l == LanguagePython || l == LanguageShell
}

// String returns the string representation.
func (l ScriptLanguage) String() string {
	return string(l)
}

// DetectScriptLanguage infers the script language from its content.
// A shebang line wins; otherwise a handful of unambiguous Python markers
// are checked. Returns false when no language can be established - callers
// must then fail fast with ErrUnsupportedScript rather than guess.
func DetectScriptLanguage(script string) (ScriptLanguage, bool) {
	trimmed := strings.TrimSpace(script)
	if trimmed == "" {
		return "", false
	}

	if strings.HasPrefix(trimmed, "#!") {
		firstLine, _, _ := strings.Cut(trimmed, "\n")
		switch {
		case strings.Contains(firstLine, "python"):
			return LanguagePython, true
		case strings.Contains(firstLine, "sh"):
			return LanguageShell, true
		default:
			return "", false
		}
	}

	for _, marker := range []string{"import ", "from ", "def ", "print("} {
		if strings.HasPrefix(trimmed, marker) {
			return LanguagePython, true
		}
	}

	return "", false
}

// ExecutionLimits bounds a sandboxed script run.
type ExecutionLimits struct {
	// Timeout is the wall-clock limit. Zero means the sandbox default.
	Timeout time.Duration

	// MaxOutputBytes caps captured stdout and stderr independently.
	// Zero means the sandbox default.
	MaxOutputBytes int
}

// ExecutionResult is the outcome of one sandboxed script run.
// It is ephemeral - reported to the caller and never persisted. Failures
// are data here, never propagated errors: a crashed or timed-out script
// produces a result with Success=false, not a pipeline failure.
type ExecutionResult struct {
	// Success is true only for a clean zero exit.
	Success bool

	// Stdout is the captured standard output, truncated at the cap.
	Stdout string

	// Stderr is the captured standard error, truncated at the cap.
	// On timeout it includes a timeout marker.
	Stderr string

	// ReturnCode is the process exit code, or TimeoutReturnCode when the
	// run was terminated for exceeding its wall-clock limit.
	ReturnCode int

	// Duration is how long the script ran.
	Duration time.Duration

	// TimedOut is true when the run hit the wall-clock limit.
	TimedOut bool
}
