package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/alnah/go-pdfbridge"
)

var _ Engine = (*chromedpEngine)(nil)

// chromedpEngine drives Chrome through chromedp. Each PDF call gets its own
// allocator, so nothing outlives the call.
type chromedpEngine struct {
	cfg Config
}

func newChromedpEngine(cfg Config) *chromedpEngine {
	return &chromedpEngine{cfg: cfg}
}

func (e *chromedpEngine) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if e.cfg.BrowserBin != "" {
		opts = append(opts, chromedp.ExecPath(e.cfg.BrowserBin))
	}
	if e.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return opts
}

func (e *chromedpEngine) PDF(ctx context.Context, inputPath string, opts pdfbridge.RendererOptions) ([]byte, error) {
	spec, err := resolve(opts)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, e.allocatorOptions()...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var pdf []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(fileURL(abs)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = printParams(spec).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

func (e *chromedpEngine) Close() error {
	return nil
}

func printParams(s printSpec) *page.PrintToPDFParams {
	params := page.PrintToPDF().
		WithLandscape(s.Landscape).
		WithPrintBackground(s.PrintBackground).
		WithPreferCSSPageSize(s.PreferCSSPageSize)

	if s.Scale != nil {
		params = params.WithScale(*s.Scale)
	}
	if s.PaperWidth != nil && s.PaperHeight != nil {
		params = params.WithPaperWidth(*s.PaperWidth).WithPaperHeight(*s.PaperHeight)
	}
	if s.MarginTop != nil {
		params = params.WithMarginTop(*s.MarginTop)
	}
	if s.MarginRight != nil {
		params = params.WithMarginRight(*s.MarginRight)
	}
	if s.MarginBottom != nil {
		params = params.WithMarginBottom(*s.MarginBottom)
	}
	if s.MarginLeft != nil {
		params = params.WithMarginLeft(*s.MarginLeft)
	}
	if s.PageRanges != "" {
		params = params.WithPageRanges(s.PageRanges)
	}
	return params
}
