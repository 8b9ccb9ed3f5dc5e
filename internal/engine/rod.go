package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-pdfbridge"
)

var _ Engine = (*rodEngine)(nil)

// rodEngine drives Chrome through go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodEngine struct {
	cfg      Config
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodEngine(cfg Config) *rodEngine {
	return &rodEngine{cfg: cfg}
}

// ensureBrowser lazily launches and connects to the browser.
func (e *rodEngine) ensureBrowser() error {
	if e.browser != nil {
		return nil
	}

	l := launcher.New()
	if e.cfg.BrowserBin != "" {
		l = l.Bin(e.cfg.BrowserBin)
	}
	if e.cfg.NoSandbox {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	e.launcher = l
	e.browser = browser
	return nil
}

// PDF opens inputPath in a new tab and prints it.
func (e *rodEngine) PDF(ctx context.Context, inputPath string, opts pdfbridge.RendererOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spec, err := resolve(opts)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := e.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := e.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: fileURL(abs)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		Landscape:         spec.Landscape,
		PrintBackground:   spec.PrintBackground,
		Scale:             spec.Scale,
		PaperWidth:        spec.PaperWidth,
		PaperHeight:       spec.PaperHeight,
		MarginTop:         spec.MarginTop,
		MarginBottom:      spec.MarginBottom,
		MarginLeft:        spec.MarginLeft,
		MarginRight:       spec.MarginRight,
		PageRanges:        spec.PageRanges,
		PreferCSSPageSize: spec.PreferCSSPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// Close shuts the browser down and removes its user data directory.
func (e *rodEngine) Close() error {
	if e.browser == nil {
		return nil
	}
	err := e.browser.Close()
	e.launcher.Kill()
	e.launcher.Cleanup()
	e.browser = nil
	e.launcher = nil
	return err
}
