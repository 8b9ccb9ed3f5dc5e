package process

// Notes:
// - KillProcessGroup: we only test with an invalid PID to verify the function
//   doesn't panic. Real termination is covered by the invoker timeout tests,
//   which run a real child process.
// - Cannot test with PID 0 (kills current process group) or real PIDs.

import (
	"os/exec"
	"testing"
)

// ---------------------------------------------------------------------------
// TestKillProcessGroup - Invalid PID Handling
// ---------------------------------------------------------------------------

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}

func TestKillProcessGroup_NonPositivePIDIsNoop(t *testing.T) {
	t.Parallel()

	// Must return without signalling our own process group.
	KillProcessGroup(0)
	KillProcessGroup(-1)
}

// ---------------------------------------------------------------------------
// TestSupervise - Command Preparation
// ---------------------------------------------------------------------------

func TestSupervise_SetsCancelAndWaitDelay(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("true")
	Supervise(cmd)

	if cmd.Cancel == nil {
		t.Fatal("expected Cancel hook to be set")
	}
	if cmd.WaitDelay != DefaultWaitDelay {
		t.Errorf("WaitDelay = %v, want %v", cmd.WaitDelay, DefaultWaitDelay)
	}
	if cmd.SysProcAttr == nil {
		t.Error("expected SysProcAttr to be set")
	}
}

func TestSupervise_CancelBeforeStartIsNoop(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("true")
	Supervise(cmd)

	if err := cmd.Cancel(); err != nil {
		t.Errorf("Cancel() before Start = %v, want nil", err)
	}
}
