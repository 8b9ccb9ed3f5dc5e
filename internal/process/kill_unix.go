//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Isolate places the command in its own process group so that a renderer and
// every browser it spawns can be signalled together.
func Isolate(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// PID 0 and below would target our own group.
	if pid <= 0 {
		return
	}
	// Best-effort; the caller still kills the leader through os.Process.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
