package engine

import (
	"fmt"
	"os"

	"github.com/go-rod/rod/lib/launcher"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBrowserBin = "ROD_BROWSER_BIN"
	EnvNoSandbox  = "ROD_NO_SANDBOX"
)

// ConfigFromEnv builds a Config from the process environment.
// The sandbox is disabled in CI and when a pre-installed browser is used,
// which is how containerized deployments ship Chrome.
func ConfigFromEnv(getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	bin := getenv(EnvBrowserBin)
	return Config{
		BrowserBin: bin,
		NoSandbox:  getenv("CI") == "true" || getenv(EnvNoSandbox) == "1" || bin != "",
	}
}

// LookupBrowser returns the browser the engines would use without
// downloading anything: the configured binary, else a system Chrome.
func LookupBrowser(cfg Config) (string, bool) {
	if cfg.BrowserBin != "" {
		if info, err := os.Stat(cfg.BrowserBin); err == nil && !info.IsDir() {
			return cfg.BrowserBin, true
		}
		return cfg.BrowserBin, false
	}
	return launcher.LookPath()
}

// DownloadBrowser fetches the pinned Chromium revision into rod's cache
// directory unless it is already there, and returns its path. Idempotent.
func DownloadBrowser() (string, error) {
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("downloading browser: %w", err)
	}
	return path, nil
}
