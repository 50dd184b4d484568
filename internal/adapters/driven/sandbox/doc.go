// Package sandbox provides a local-process implementation of the
// Sandbox driven port.
//
// Generated scripts are treated as hostile: every run gets a fresh
// ephemeral working directory, a scrubbed environment, a hard
// wall-clock timeout enforced with process-group termination, and
// bounded stdout/stderr capture. Script failure is reported in the
// result, never as an error.
package sandbox
