//go:build unix

package pdfbridge

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"
)

// assertProcessGone fails if the pid recorded in pidFile is still alive.
func assertProcessGone(t *testing.T, pidFile string) {
	t.Helper()

	raw, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatalf("renderer never started: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		t.Fatalf("bad pid file: %v", err)
	}

	// The child is reaped by Wait, so ESRCH should come right away.
	deadline := time.Now().Add(2 * time.Second)
	for {
		err := syscall.Kill(pid, 0)
		if errors.Is(err, syscall.ESRCH) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("renderer pid %d still running (kill 0: %v)", pid, err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
