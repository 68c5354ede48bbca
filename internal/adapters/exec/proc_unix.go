//go:build unix

package exec

import (
	osexec "os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// isolateProcessGroup puts the child in its own process group (Unix
// implementation) so a later kill reaches the hook and everything it
// spawned.
func isolateProcessGroup(cmd *osexec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup force-kills the child's process group (Unix
// implementation). The negative pid addresses the group created by Setpgid.
func killProcessGroup(cmd *osexec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL); err != nil {
		// Group already gone or never created; fall back to the process
		_ = cmd.Process.Kill()
	}
}
