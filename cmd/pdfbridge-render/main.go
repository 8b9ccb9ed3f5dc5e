// Command pdfbridge-render is the renderer entry point the bridge launches.
//
//	pdfbridge-render [--engine rod|chromedp] <input.html> <output.pdf|->
//
// Page options arrive as a JSON object in PDF_OPTIONS_JSON (see
// pdfbridge.RendererOptions). The PDF goes to stdout for "-", diagnostics
// to stderr.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-pdfbridge"
	"github.com/alnah/go-pdfbridge/internal/engine"
	"github.com/alnah/go-pdfbridge/internal/hints"
)

// Exit codes.
const (
	exitOK     = 0
	exitRender = 1 // browser or page failure
	exitUsage  = 2 // bad arguments or options
)

const envEngine = "PDFBRIDGE_ENGINE"

// filePermissions: rw-r--r--, PDFs are meant to be readable.
const filePermissions = 0o644

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	fs := flag.NewFlagSet("pdfbridge-render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	engineName := fs.String("engine", "", "browser engine: rod, chromedp (default $"+envEngine+", then rod)")
	optionsEnv := fs.String("options-env", pdfbridge.DefaultOptionsEnv, "environment variable holding the options JSON")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: pdfbridge-render [flags] <input.html> <output.pdf|->")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "pdfbridge-render: %v\n", err)
		fs.Usage()
		return exitUsage
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return exitUsage
	}
	input, output := fs.Arg(0), fs.Arg(1)

	opts, err := decodeOptions(getenv(*optionsEnv))
	if err != nil {
		fmt.Fprintf(stderr, "pdfbridge-render: %v\n", err)
		return exitUsage
	}

	name := *engineName
	if name == "" {
		name = getenv(envEngine)
	}
	eng, err := engine.New(name, engine.ConfigFromEnv(getenv))
	if err != nil {
		fmt.Fprintf(stderr, "pdfbridge-render: %v\n", err)
		return exitUsage
	}
	defer func() { _ = eng.Close() }()

	pdf, err := eng.PDF(ctx, input, opts)
	if err != nil {
		return report(stderr, err)
	}

	if output == pdfbridge.OutputSentinel {
		if _, err := stdout.Write(pdf); err != nil {
			fmt.Fprintf(stderr, "pdfbridge-render: writing PDF: %v\n", err)
			return exitRender
		}
		return exitOK
	}
	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(output, pdf, filePermissions); err != nil {
		fmt.Fprintf(stderr, "pdfbridge-render: writing PDF: %v\n", err)
		return exitRender
	}
	return exitOK
}

// decodeOptions parses the options JSON. Keys outside RendererOptions are
// ignored: hosts may pass options for other renderers.
func decodeOptions(raw string) (pdfbridge.RendererOptions, error) {
	var opts pdfbridge.RendererOptions
	if len(bytes.TrimSpace([]byte(raw))) == 0 {
		return opts, nil
	}
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return opts, fmt.Errorf("%w: %v", engine.ErrInvalidOptions, err)
	}
	return opts, nil
}

func report(stderr io.Writer, err error) int {
	msg := err.Error()
	if errors.Is(err, engine.ErrBrowserConnect) {
		msg += hints.ForBrowserConnect()
	}
	fmt.Fprintf(stderr, "pdfbridge-render: %s\n", msg)

	if errors.Is(err, engine.ErrInvalidOptions) {
		return exitUsage
	}
	return exitRender
}
