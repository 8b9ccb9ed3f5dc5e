package pdfbridge

import (
	"fmt"
	"io"
	"os"
)

// Sink is where a rendered PDF goes. The zero value discards the PDF; the
// bytes are still returned in Result.PDF.
type Sink struct {
	path string
	w    io.Writer
}

// ToFile writes the PDF to path, creating or truncating it.
func ToFile(path string) Sink {
	return Sink{path: path}
}

// ToWriter writes the PDF to w. Nothing is truncated or closed; bytes are
// appended at w's current position.
func ToWriter(w io.Writer) Sink {
	return Sink{w: w}
}

// IsZero reports whether the sink discards output.
func (s Sink) IsZero() bool {
	return s.path == "" && s.w == nil
}

// Path returns the file path for file sinks, "" otherwise.
func (s Sink) Path() string {
	return s.path
}

func (s Sink) String() string {
	switch {
	case s.path != "":
		return s.path
	case s.w != nil:
		return "stream"
	default:
		return "discard"
	}
}

// write delivers pdf and reports how many bytes reached the sink.
func (s Sink) write(pdf []byte) (int64, error) {
	switch {
	case s.path != "":
		if err := os.WriteFile(s.path, pdf, 0o644); err != nil { // #nosec G306 -- generated document, not a secret
			return 0, fmt.Errorf("writing %s: %w", s.path, err)
		}
		return int64(len(pdf)), nil
	case s.w != nil:
		n, err := s.w.Write(pdf)
		if err != nil {
			return int64(n), fmt.Errorf("writing stream: %w", err)
		}
		return int64(n), nil
	default:
		return 0, nil
	}
}
