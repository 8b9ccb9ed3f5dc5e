package pdfbridge

import (
	"context"
	"errors"
	"testing"
)

func TestHookGetPDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		hookName    string
		generator   string
		wantHandled bool
	}{
		{"default name", "", "puppeteer", true},
		{"case-insensitive", "", "Puppeteer", true},
		{"custom name", "chrome", "chrome", true},
		{"other generator", "", "wkhtmltopdf", false},
		{"empty generator", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := &mockInvoker{}
			h := &Hook{Bridge: New(withInvoker(mock)), Generator: tt.hookName}

			handled, res, err := h.GetPDF(context.Background(), "Standard", "<p>x</p>",
				map[string]string{KeyPageSize: "A4"}, Sink{}, tt.generator)
			if err != nil {
				t.Fatalf("GetPDF: %v", err)
			}
			if handled != tt.wantHandled {
				t.Errorf("handled = %v, want %v", handled, tt.wantHandled)
			}
			if mock.called != tt.wantHandled {
				t.Errorf("invoker called = %v, want %v", mock.called, tt.wantHandled)
			}
			if !tt.wantHandled && res != nil {
				t.Error("result returned for unhandled generator")
			}
			if tt.wantHandled && mock.opts.PageFormat != "A4" {
				t.Errorf("options not parsed: %+v", mock.opts)
			}
		})
	}
}

func TestHookGetPDF_Error(t *testing.T) {
	t.Parallel()

	mock := &mockInvoker{err: newError(KindTimeout, "", nil)}
	h := NewHook(New(withInvoker(mock)))

	handled, _, err := h.GetPDF(context.Background(), "", "x", nil, Sink{}, DefaultGenerator)
	if !handled {
		t.Error("handled = false for own generator")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}
