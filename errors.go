package pdfbridge

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// ErrorKind classifies a failed render.
type ErrorKind string

// Error kinds surfaced by the bridge.
const (
	KindInvalidOption        ErrorKind = "invalid_option"
	KindRendererNotInstalled ErrorKind = "renderer_not_installed"
	KindTimeout              ErrorKind = "timeout"
	KindRenderFailed         ErrorKind = "render_failed"
	KindCanceled             ErrorKind = "canceled"
)

// Sentinel errors, one per kind. A *RenderError matches the sentinel of its
// kind with errors.Is.
var (
	ErrInvalidOption        = errors.New("invalid render option")
	ErrRendererNotInstalled = errors.New("renderer not installed")
	ErrTimeout              = errors.New("render timed out")
	ErrRenderFailed         = errors.New("render failed")
	ErrCanceled             = errors.New("render canceled")
)

// RenderError is the failure outcome of a render call.
type RenderError struct {
	Kind   ErrorKind
	Msg    string
	Stderr string // captured renderer diagnostics, if the renderer ran
	Err    error
}

func (e *RenderError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = sentinelFor(e.Kind).Error()
	}
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *RenderError) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}

func newError(kind ErrorKind, msg string, err error) *RenderError {
	return &RenderError{Kind: kind, Msg: msg, Err: err}
}

func sentinelFor(kind ErrorKind) error {
	switch kind {
	case KindInvalidOption:
		return ErrInvalidOption
	case KindRendererNotInstalled:
		return ErrRendererNotInstalled
	case KindTimeout:
		return ErrTimeout
	case KindCanceled:
		return ErrCanceled
	default:
		return ErrRenderFailed
	}
}

// KindOf returns the kind of err, or "" for nil.
// Errors that did not come from the bridge are reported as KindRenderFailed,
// except bare context errors.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return renderErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	return KindRenderFailed
}

// AsGoError maps an error into a go-errors error for hosts that report
// failures through it.
func AsGoError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var ge *goerrors.Error
	if errors.As(err, &ge) {
		return ge
	}

	msg := err.Error()
	kind := KindOf(err)

	switch kind {
	case KindInvalidOption:
		return goerrors.New(msg, goerrors.CategoryValidation).WithTextCode(string(kind))
	case KindRendererNotInstalled:
		return goerrors.New(msg, goerrors.CategoryNotFound).WithTextCode(string(kind))
	case KindTimeout, KindCanceled, KindRenderFailed:
		return goerrors.New(msg, goerrors.CategoryOperation).WithTextCode(string(kind))
	default:
		return goerrors.New(msg, goerrors.CategoryInternal).WithTextCode("internal")
	}
}
