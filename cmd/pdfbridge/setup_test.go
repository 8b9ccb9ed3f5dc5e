package main

// Notes:
// - downloadBrowser and lookupBrowser are package variables swapped here,
//   so these tests do not run in parallel.

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-pdfbridge/internal/engine"
)

func stubBrowser(t *testing.T, path string, found bool, downloadErr error) *int {
	t.Helper()

	origDownload, origLookup := downloadBrowser, lookupBrowser
	t.Cleanup(func() { downloadBrowser, lookupBrowser = origDownload, origLookup })

	var downloads int
	downloadBrowser = func() (string, error) {
		downloads++
		return path, downloadErr
	}
	lookupBrowser = func(engine.Config) (string, bool) {
		return path, found
	}
	return &downloads
}

func TestRunSetup_Downloads(t *testing.T) {
	downloads := stubBrowser(t, "/cache/chromium/chrome", true, nil)
	te := newTestEnv(t, "echo")

	if code := run(context.Background(), []string{"setup"}, te.Environment); code != ExitSuccess {
		t.Fatalf("exit = %d\nstderr: %s", code, te.stderr)
	}
	if *downloads != 1 {
		t.Errorf("downloads = %d, want 1", *downloads)
	}
	if !strings.Contains(te.stdout.String(), "/cache/chromium/chrome") {
		t.Errorf("stdout = %q, want browser path", te.stdout)
	}
}

func TestRunSetup_DownloadFails(t *testing.T) {
	stubBrowser(t, "", false, errors.New("dial tcp: no route"))
	te := newTestEnv(t, "echo")

	code := run(context.Background(), []string{"setup", "-q"}, te.Environment)
	if code != ExitGeneral {
		t.Errorf("exit = %d, want %d", code, ExitGeneral)
	}
	if !strings.Contains(te.stderr.String(), "hint:") {
		t.Errorf("stderr should carry a hint, got %q", te.stderr)
	}
}

func TestRunSetup_BrowserBinSkipsDownload(t *testing.T) {
	downloads := stubBrowser(t, "/usr/bin/chromium", true, nil)
	te := newTestEnv(t, "echo")
	te.vars[engine.EnvBrowserBin] = "/usr/bin/chromium"

	if code := run(context.Background(), []string{"setup"}, te.Environment); code != ExitSuccess {
		t.Fatalf("exit = %d\nstderr: %s", code, te.stderr)
	}
	if *downloads != 0 {
		t.Errorf("downloads = %d, want 0 with %s set", *downloads, engine.EnvBrowserBin)
	}
}

func TestRunSetup_Check(t *testing.T) {
	tests := []struct {
		name     string
		found    bool
		wantCode int
	}{
		{"available", true, ExitSuccess},
		{"missing", false, ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			downloads := stubBrowser(t, "/usr/bin/chromium", tt.found, nil)
			te := newTestEnv(t, "echo")

			if code := run(context.Background(), []string{"setup", "--check"}, te.Environment); code != tt.wantCode {
				t.Errorf("exit = %d, want %d", code, tt.wantCode)
			}
			if *downloads != 0 {
				t.Error("--check must not download")
			}
		})
	}
}
