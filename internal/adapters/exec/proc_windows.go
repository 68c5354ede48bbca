//go:build windows

package exec

import (
	osexec "os/exec"
)

// isolateProcessGroup is a no-op on Windows; there is no Unix-style process
// group to create.
func isolateProcessGroup(cmd *osexec.Cmd) {
}

// killProcessGroup force-kills the child process (Windows implementation).
// Grandchildren are not tracked; the hook contract is one process per hook.
func killProcessGroup(cmd *osexec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
