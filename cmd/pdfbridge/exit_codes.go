package main

import (
	"errors"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-pdfbridge"
	"github.com/alnah/go-pdfbridge/internal/assets"
	"github.com/alnah/go-pdfbridge/internal/config"
	"github.com/alnah/go-pdfbridge/internal/engine"
)

// Exit codes for the pdfbridge CLI.
// 0=success, 1=general, 2=usage, custom codes below 126.
const (
	ExitSuccess  = 0 // All renders succeeded
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or render option
	ExitIO       = 3 // Input missing, output not writable
	ExitRenderer = 4 // Renderer missing, failed, or timed out
)

// exitCodeFor maps an error to an exit code. Wrapped errors are matched
// with errors.Is, so callers must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, pdfbridge.ErrRendererNotInstalled),
		errors.Is(err, pdfbridge.ErrTimeout),
		errors.Is(err, pdfbridge.ErrRenderFailed),
		errors.Is(err, engine.ErrBrowserConnect),
		errors.Is(err, engine.ErrPageCreate),
		errors.Is(err, engine.ErrPageLoad),
		errors.Is(err, engine.ErrPDFGeneration):
		return ExitRenderer

	case errors.Is(err, os.ErrNotExist),
		errors.Is(err, os.ErrPermission),
		errors.Is(err, ErrNoInput),
		errors.Is(err, ErrReadInput),
		errors.Is(err, ErrReadCSS),
		errors.Is(err, assets.ErrAssetRead),
		errors.Is(err, ErrWriteOutput):
		return ExitIO

	case errors.Is(err, pdfbridge.ErrInvalidOption),
		errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, config.ErrConfigParse),
		errors.Is(err, config.ErrFieldTooLong),
		errors.Is(err, config.ErrInvalidValue),
		errors.Is(err, engine.ErrInvalidOptions),
		errors.Is(err, engine.ErrUnknownEngine),
		errors.Is(err, ErrUsage),
		errors.Is(err, ErrUnsupportedInput),
		errors.Is(err, assets.ErrStyleNotFound),
		errors.Is(err, assets.ErrInvalidAssetName),
		errors.Is(err, assets.ErrInvalidBasePath),
		errors.Is(err, assets.ErrPathTraversal),
		errors.Is(err, flag.ErrHelp):
		return ExitUsage
	}

	return ExitGeneral
}
