// Package engine turns an HTML file into PDF bytes with headless Chrome.
// It backs the pdfbridge-render entry point: the options it consumes are
// the JSON object the bridge passes to the renderer.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alnah/go-pdfbridge"
)

// Engine renders one local HTML file to PDF.
type Engine interface {
	PDF(ctx context.Context, inputPath string, opts pdfbridge.RendererOptions) ([]byte, error)
	Close() error
}

// Engine names accepted by New.
const (
	NameRod      = "rod"
	NameChromedp = "chromedp"
)

// Sentinel errors for rendering failures.
var (
	ErrUnknownEngine  = errors.New("unknown engine")
	ErrInvalidOptions = errors.New("invalid renderer options")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)

var engines = map[string]func(Config) Engine{
	NameRod:      func(c Config) Engine { return newRodEngine(c) },
	NameChromedp: func(c Config) Engine { return newChromedpEngine(c) },
}

// Config holds browser settings shared by all engines.
type Config struct {
	BrowserBin string // "" = engine default lookup
	NoSandbox  bool
}

// New returns the engine registered under name ("" = rod).
func New(name string, cfg Config) (Engine, error) {
	if name == "" {
		name = NameRod
	}
	factory, ok := engines[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownEngine, name, strings.Join(Names(), ", "))
	}
	return factory(cfg), nil
}

// Names lists registered engines in sorted order.
func Names() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fileURL turns an absolute path into a file:// URL.
func fileURL(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "file://" + path
}
