package main

import "errors"

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrReadInput        = errors.New("failed to read input file")
	ErrReadCSS          = errors.New("failed to read CSS file")
	ErrWriteOutput      = errors.New("failed to write output")
	ErrUsage            = errors.New("invalid usage")
	ErrUnsupportedInput = errors.New("input must be .html, .htm, .md or .markdown")
)
