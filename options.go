package pdfbridge

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterbourgon/mergemap"
)

// Keys of the generic string option map accepted by ParseOptions.
// These match the print options hosts pass to their PDF generators.
const (
	KeyPageSize        = "page-size"
	KeyOrientation     = "orientation"
	KeyMarginTop       = "margin-top"
	KeyMarginRight     = "margin-right"
	KeyMarginBottom    = "margin-bottom"
	KeyMarginLeft      = "margin-left"
	KeyPrintBackground = "print-background"
	KeyPageRanges      = "page-ranges"
	KeyScale           = "scale"
)

// RendererOptions is the renderer-native option schema. It is serialized to
// JSON and handed to the renderer process; unset fields are omitted.
type RendererOptions struct {
	Format          string          `json:"format,omitempty"`
	Landscape       *bool           `json:"landscape,omitempty"`
	Margin          *RendererMargin `json:"margin,omitempty"`
	PrintBackground bool            `json:"printBackground,omitempty"`
	PageRanges      string          `json:"pageRanges,omitempty"`
	Scale           *float64        `json:"scale,omitempty"`
}

// RendererMargin holds the margin sides that were set.
type RendererMargin struct {
	Top    *string `json:"top,omitempty"`
	Right  *string `json:"right,omitempty"`
	Bottom *string `json:"bottom,omitempty"`
	Left   *string `json:"left,omitempty"`
}

// MapOptions translates generic page options into the renderer schema.
// It never fails: fields that are unset are left out of the result.
func MapOptions(o PageOptions) RendererOptions {
	var r RendererOptions

	if o.PageFormat != "" {
		r.Format = o.PageFormat
	}

	switch o.Orientation {
	case Landscape:
		r.Landscape = Ptr(true)
	case Portrait:
		r.Landscape = Ptr(false)
	}

	if !o.Margins.IsZero() {
		r.Margin = &RendererMargin{
			Top:    clonePtr(o.Margins.Top),
			Right:  clonePtr(o.Margins.Right),
			Bottom: clonePtr(o.Margins.Bottom),
			Left:   clonePtr(o.Margins.Left),
		}
	}

	// false is never emitted
	if o.PrintBackground {
		r.PrintBackground = true
	}

	if o.PageRanges != "" {
		r.PageRanges = o.PageRanges
	}

	r.Scale = clonePtr(o.Scale)

	return r
}

// JSON encodes the options as the renderer expects them in its side channel.
// Output is deterministic for equal options.
func (r RendererOptions) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// payload encodes r layered over extra. Keys set in r win; nested objects are
// merged, so extra can add fields the mapper does not know about.
func (r RendererOptions) payload(extra map[string]any) ([]byte, error) {
	if len(extra) == 0 {
		return r.JSON()
	}

	base, err := toObject(extra)
	if err != nil {
		return nil, err
	}
	mapped, err := toObject(r)
	if err != nil {
		return nil, err
	}

	return json.Marshal(mergemap.Merge(base, mapped))
}

// toObject deep-copies v into a fresh JSON object so merges never alias
// caller-owned maps.
func toObject(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	obj := map[string]any{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// ParseOptions reads the generic string option map hosts pass to PDF
// generators into typed PageOptions. Unknown keys are ignored. A value that
// cannot be interpreted is an InvalidOption error.
func ParseOptions(raw map[string]string) (PageOptions, error) {
	var o PageOptions

	o.PageFormat = strings.TrimSpace(raw[KeyPageSize])

	switch v := strings.TrimSpace(raw[KeyOrientation]); strings.ToLower(v) {
	case "":
	case "portrait":
		o.Orientation = Portrait
	case "landscape":
		o.Orientation = Landscape
	default:
		return PageOptions{}, invalidOption(KeyOrientation, v, "must be Portrait or Landscape")
	}

	o.Margins = Margins{
		Top:    optional(raw[KeyMarginTop]),
		Right:  optional(raw[KeyMarginRight]),
		Bottom: optional(raw[KeyMarginBottom]),
		Left:   optional(raw[KeyMarginLeft]),
	}

	if v := strings.TrimSpace(raw[KeyPrintBackground]); v != "" {
		b, ok := parseFlag(v)
		if !ok {
			return PageOptions{}, invalidOption(KeyPrintBackground, v, "must be a boolean")
		}
		o.PrintBackground = b
	}

	o.PageRanges = strings.TrimSpace(raw[KeyPageRanges])

	if v := strings.TrimSpace(raw[KeyScale]); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return PageOptions{}, invalidOption(KeyScale, v, "must be a number")
		}
		o.Scale = &f
	}

	if err := o.Validate(); err != nil {
		return PageOptions{}, err
	}
	return o, nil
}

// optional returns nil for blank values so "unset" never becomes "".
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func parseFlag(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "yes", "on":
		return true, true
	case "no", "off":
		return false, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func invalidOption(key, value, reason string) *RenderError {
	return newError(KindInvalidOption, fmt.Sprintf("invalid option %s=%q: %s", key, value, reason), nil)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
