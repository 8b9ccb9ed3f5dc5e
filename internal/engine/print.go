package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-pdfbridge"
)

// Scale bounds accepted by Chrome's printToPDF.
const (
	minScale = 0.1
	maxScale = 2.0
)

var lengthPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]*)\s*$`)

// Paper sizes in inches, keyed by upper-case format name.
var paperSizes = map[string]struct{ width, height float64 }{
	"A0":      {33.1, 46.8},
	"A1":      {23.4, 33.1},
	"A2":      {16.54, 23.4},
	"A3":      {11.7, 16.54},
	"A4":      {8.27, 11.7},
	"A5":      {5.83, 8.27},
	"A6":      {4.13, 5.83},
	"LETTER":  {8.5, 11},
	"LEGAL":   {8.5, 14},
	"TABLOID": {11, 17},
	"LEDGER":  {17, 11},
}

// printSpec is RendererOptions resolved to Chrome's units: inches, with nil
// meaning "Chrome default".
type printSpec struct {
	PaperWidth, PaperHeight                          *float64
	MarginTop, MarginRight, MarginBottom, MarginLeft *float64
	Landscape, PrintBackground, PreferCSSPageSize    bool
	PageRanges                                       string
	Scale                                            *float64
}

// resolve validates opts and converts them to a printSpec.
func resolve(opts pdfbridge.RendererOptions) (printSpec, error) {
	var s printSpec

	if opts.Format != "" {
		size, ok := paperSizes[strings.ToUpper(opts.Format)]
		if !ok {
			return printSpec{}, fmt.Errorf("%w: unsupported page format %q", ErrInvalidOptions, opts.Format)
		}
		s.PaperWidth = &size.width
		s.PaperHeight = &size.height
	} else {
		// no format: let @page rules decide, Letter otherwise
		s.PreferCSSPageSize = true
	}

	if opts.Landscape != nil {
		s.Landscape = *opts.Landscape
	}
	s.PrintBackground = opts.PrintBackground
	s.PageRanges = opts.PageRanges

	if opts.Scale != nil {
		if *opts.Scale < minScale || *opts.Scale > maxScale {
			return printSpec{}, fmt.Errorf("%w: scale %g outside %g-%g", ErrInvalidOptions, *opts.Scale, minScale, maxScale)
		}
		s.Scale = opts.Scale
	}

	if m := opts.Margin; m != nil {
		var err error
		for _, side := range []struct {
			in  *string
			out **float64
		}{
			{m.Top, &s.MarginTop},
			{m.Right, &s.MarginRight},
			{m.Bottom, &s.MarginBottom},
			{m.Left, &s.MarginLeft},
		} {
			if side.in == nil {
				continue
			}
			if *side.out, err = lengthInches(*side.in); err != nil {
				return printSpec{}, err
			}
		}
	}

	return s, nil
}

// lengthInches parses a CSS length. A bare number is pixels.
func lengthInches(value string) (*float64, error) {
	m := lengthPattern.FindStringSubmatch(value)
	if len(m) != 3 {
		return nil, fmt.Errorf("%w: invalid length %q", ErrInvalidOptions, value)
	}

	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid length %q: %v", ErrInvalidOptions, value, err)
	}

	var inches float64
	switch unit := strings.ToLower(m[2]); unit {
	case "in":
		inches = amount
	case "cm":
		inches = amount / 2.54
	case "mm":
		inches = amount / 25.4
	case "pt":
		inches = amount / 72
	case "px", "":
		inches = amount / 96
	default:
		return nil, fmt.Errorf("%w: unsupported length unit %q", ErrInvalidOptions, unit)
	}
	return &inches, nil
}
