package pdfbridge

import (
	"context"
	"strings"
)

// DefaultGenerator is the generator name a Hook claims.
const DefaultGenerator = "puppeteer"

// Hook plugs the bridge into a host's PDF-generation hook. The host asks
// every registered hook to produce the PDF; a hook only acts when the
// requested generator is its own.
type Hook struct {
	Bridge    *Bridge
	Generator string // "" = DefaultGenerator
}

// NewHook returns a Hook for b under DefaultGenerator.
func NewHook(b *Bridge) *Hook {
	return &Hook{Bridge: b, Generator: DefaultGenerator}
}

// GetPDF renders html when generator names this hook (case-insensitive).
// For any other generator it does nothing and reports handled == false.
// printFormat is the host's print format name; it is logged only.
func (h *Hook) GetPDF(ctx context.Context, printFormat, html string, options map[string]string, sink Sink, generator string) (handled bool, res *Result, err error) {
	if !strings.EqualFold(strings.TrimSpace(generator), h.name()) {
		return false, nil, nil
	}

	b := h.Bridge
	if b == nil {
		b = New()
	}

	b.cfg.logger().Debug("hook claimed render",
		"generator", h.name(),
		"print_format", printFormat)

	res, err = b.RenderMap(ctx, html, options, sink)
	return true, res, err
}

func (h *Hook) name() string {
	if h.Generator == "" {
		return DefaultGenerator
	}
	return h.Generator
}
