//go:build windows

package pdfbridge

import "testing"

func assertProcessGone(t *testing.T, pidFile string) {
	t.Helper()
	// No portable liveness probe; the taskkill path is covered in internal/process.
}
