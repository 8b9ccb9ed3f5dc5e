package main

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-pdfbridge/internal/engine"
	"github.com/alnah/go-pdfbridge/internal/hints"
)

// Swapped in tests to avoid network access.
var (
	downloadBrowser = engine.DownloadBrowser
	lookupBrowser   = engine.LookupBrowser
)

// runSetup provisions the browser explicitly instead of on first render.
// With ROD_BROWSER_BIN set there is nothing to download.
func runSetup(_ context.Context, args []string, env *Environment) error {
	var check bool
	flags, _, err := parseSimpleFlags("setup", args, env.Stderr, func(fs *flag.FlagSet) {
		addSetupFlags(fs, &check)
	})
	if err != nil {
		return err
	}

	cfg := engine.ConfigFromEnv(env.Getenv)
	if cfg.BrowserBin != "" || check {
		path, found := lookupBrowser(cfg)
		if !found {
			if check {
				return fmt.Errorf("%w: no browser found; run 'pdfbridge setup'", errNotReady)
			}
			return fmt.Errorf("%w: %s=%s does not exist", errNotReady, engine.EnvBrowserBin, cfg.BrowserBin)
		}
		if !flags.quiet {
			fmt.Fprintf(env.Stdout, "Browser available at %s\n", path)
		}
		return nil
	}

	if !flags.quiet {
		fmt.Fprintln(env.Stderr, "Downloading Chromium (skipped if already cached)...")
	}
	path, err := downloadBrowser()
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForBrowserDownload())
	}
	if !flags.quiet {
		fmt.Fprintf(env.Stdout, "Browser ready at %s\n", path)
	}
	return nil
}
