package pdfbridge

import (
	"errors"
	"math"
	"testing"
)

func TestPageOptionsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    PageOptions
		wantErr bool
	}{
		{"zero value", PageOptions{}, false},
		{"full", PageOptions{
			PageFormat: "Letter", Orientation: Portrait,
			Margins: Margins{Top: Ptr("1in")}, PrintBackground: true,
			PageRanges: "1", Scale: Ptr(1.0),
		}, false},
		{"lowercase orientation", PageOptions{Orientation: "landscape"}, true},
		{"blank margin", PageOptions{Margins: Margins{Bottom: Ptr("  ")}}, true},
		{"zero scale", PageOptions{Scale: Ptr(0.0)}, true},
		{"infinite scale", PageOptions{Scale: Ptr(math.Inf(1))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidOption) {
				t.Errorf("Validate() = %v, want ErrInvalidOption", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestMarginsIsZero(t *testing.T) {
	t.Parallel()

	if !(Margins{}).IsZero() {
		t.Error("empty Margins not zero")
	}
	if (Margins{Right: Ptr("0")}).IsZero() {
		t.Error("Margins with a \"0\" side reported zero")
	}
}
