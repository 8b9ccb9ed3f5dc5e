package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// newLogger builds the CLI logger. --verbose forces debug, --quiet forces
// error; otherwise level comes from configuration.
func newLogger(w io.Writer, level, format string, verbose, quiet bool) (*slog.Logger, error) {
	var lvl slog.Level
	switch {
	case verbose:
		lvl = slog.LevelDebug
	case quiet:
		lvl = slog.LevelError
	case level == "":
		lvl = slog.LevelWarn
	default:
		if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
			return nil, fmt.Errorf("%w: log level %q", ErrUsage, level)
		}
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: log format %q", ErrUsage, format)
	}
}
