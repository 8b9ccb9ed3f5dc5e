package pdfbridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestRenderErrorIs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     ErrorKind
		sentinel error
	}{
		{KindInvalidOption, ErrInvalidOption},
		{KindRendererNotInstalled, ErrRendererNotInstalled},
		{KindTimeout, ErrTimeout},
		{KindRenderFailed, ErrRenderFailed},
		{KindCanceled, ErrCanceled},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()

			err := fmt.Errorf("wrapped: %w", newError(tt.kind, "", nil))
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
			if KindOf(err) != tt.kind {
				t.Errorf("KindOf = %q, want %q", KindOf(err), tt.kind)
			}
			for _, other := range tests {
				if other.kind != tt.kind && errors.Is(err, other.sentinel) {
					t.Errorf("%s error also matches %v", tt.kind, other.sentinel)
				}
			}
		})
	}
}

func TestRenderErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *RenderError
		want string
	}{
		{"sentinel text", &RenderError{Kind: KindTimeout}, "render timed out"},
		{"message", &RenderError{Kind: KindRenderFailed, Msg: "renderer error: x"}, "renderer error: x"},
		{"wrapped", &RenderError{Kind: KindRenderFailed, Msg: "delivering PDF", Err: io.ErrShortWrite}, "delivering PDF: short write"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := newError(KindCanceled, "render canceled", context.Canceled)
	if !errors.Is(err, context.Canceled) {
		t.Error("RenderError does not unwrap to its cause")
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"canceled", fmt.Errorf("x: %w", context.Canceled), KindCanceled},
		{"foreign", errors.New("other"), KindRenderFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAsGoError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind         ErrorKind
		wantCategory goerrors.Category
	}{
		{KindInvalidOption, goerrors.CategoryValidation},
		{KindRendererNotInstalled, goerrors.CategoryNotFound},
		{KindTimeout, goerrors.CategoryOperation},
		{KindRenderFailed, goerrors.CategoryOperation},
		{KindCanceled, goerrors.CategoryOperation},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()

			ge := AsGoError(newError(tt.kind, "msg", nil))
			if ge == nil {
				t.Fatal("AsGoError returned nil")
			}
			if ge.Category != tt.wantCategory {
				t.Errorf("Category = %v, want %v", ge.Category, tt.wantCategory)
			}
			if ge.TextCode != string(tt.kind) {
				t.Errorf("TextCode = %q, want %q", ge.TextCode, tt.kind)
			}
		})
	}

	if AsGoError(nil) != nil {
		t.Error("AsGoError(nil) != nil")
	}
}
