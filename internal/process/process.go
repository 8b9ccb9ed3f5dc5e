// Package process manages renderer child processes: group isolation and
// whole-tree termination on deadline or cancellation.
package process

import (
	"errors"
	"os"
	"os/exec"
	"time"
)

// DefaultWaitDelay bounds how long Wait blocks on inherited pipes after the
// child has been killed.
const DefaultWaitDelay = 2 * time.Second

// Supervise prepares cmd so that cancelling the context it was built with
// terminates the whole process tree instead of the leader only.
// Must be called before cmd.Start.
func Supervise(cmd *exec.Cmd) {
	Isolate(cmd)
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillProcessGroup(cmd.Process.Pid)
		err := cmd.Process.Kill()
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return err
	}
	cmd.WaitDelay = DefaultWaitDelay
}
