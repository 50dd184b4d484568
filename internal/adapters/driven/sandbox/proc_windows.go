//go:build windows

package sandbox

import "os/exec"

// setProcessGroup is a no-op on Windows; CommandContext kills the child
// directly.
func setProcessGroup(_ *exec.Cmd) {}

// killProcessGroup kills the child process. Windows has no POSIX
// process groups, so grandchildren may survive.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
