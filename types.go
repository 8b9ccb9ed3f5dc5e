package pdfbridge

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Orientation is the page orientation. The zero value means unset.
type Orientation string

// Orientation values.
const (
	Portrait  Orientation = "Portrait"
	Landscape Orientation = "Landscape"
)

// Margins holds the four page margins. A nil side is unset; "0" is a set value.
// Values are CSS-like lengths ("10mm", "0.5in", "12px") passed to the
// renderer verbatim.
type Margins struct {
	Top    *string
	Right  *string
	Bottom *string
	Left   *string
}

// IsZero reports whether no side is set.
func (m Margins) IsZero() bool {
	return m.Top == nil && m.Right == nil && m.Bottom == nil && m.Left == nil
}

// PageOptions is the generic page/print option set. Every field is optional
// and unset fields are never sent to the renderer.
type PageOptions struct {
	PageFormat      string      // named size token, e.g. "A4", "Letter"
	Orientation     Orientation // "" = unset
	Margins         Margins
	PrintBackground bool
	PageRanges      string   // e.g. "1-3,5"; "" = all pages
	Scale           *float64 // nil = renderer default
}

// Validate checks that the options can be sent to a renderer.
// The zero value is valid.
func (o PageOptions) Validate() error {
	switch o.Orientation {
	case "", Portrait, Landscape:
	default:
		return invalidOption(KeyOrientation, string(o.Orientation), "must be Portrait or Landscape")
	}

	sides := []struct {
		key   string
		value *string
	}{
		{KeyMarginTop, o.Margins.Top},
		{KeyMarginRight, o.Margins.Right},
		{KeyMarginBottom, o.Margins.Bottom},
		{KeyMarginLeft, o.Margins.Left},
	}
	for _, side := range sides {
		if side.value != nil && strings.TrimSpace(*side.value) == "" {
			return invalidOption(side.key, *side.value, "must not be empty when set")
		}
	}

	if o.Scale != nil {
		s := *o.Scale
		if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
			return invalidOption(KeyScale, fmt.Sprint(s), "must be a positive number")
		}
	}

	return nil
}

// RenderRequest is one render call: markup content, the options to render
// it with, and where the PDF goes.
type RenderRequest struct {
	Content string
	Options PageOptions
	Sink    Sink
}

// Result is the success outcome of a render call.
type Result struct {
	PDF      []byte
	Bytes    int64 // bytes written to the sink
	Duration time.Duration
	RenderID string
}

// Ptr returns a pointer to v. Handy for optional option fields:
//
//	opts.Margins.Top = pdfbridge.Ptr("10mm")
//	opts.Scale = pdfbridge.Ptr(0.8)
func Ptr[T any](v T) *T {
	return &v
}
