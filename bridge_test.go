package pdfbridge

// Notes:
// - Bridge tests swap the invoker for a mock to check validation and
//   option parsing without starting processes.
// - TestBridgeRender_EndToEnd runs the fake renderer through New.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockInvoker struct {
	called  bool
	content string
	opts    PageOptions
	sink    Sink
	res     *Result
	err     error
}

func (m *mockInvoker) Render(ctx context.Context, content string, opts PageOptions, sink Sink) (*Result, error) {
	m.called = true
	m.content = content
	m.opts = opts
	m.sink = sink
	if m.err != nil {
		return nil, m.err
	}
	if m.res != nil {
		return m.res, nil
	}
	return &Result{PDF: []byte("%PDF")}, nil
}

func withInvoker(inv renderInvoker) Option {
	return func(b *Bridge) {
		b.invoker = inv
	}
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	b := New()
	inv, ok := b.invoker.(*Invoker)
	if !ok {
		t.Fatalf("invoker = %T, want *Invoker", b.invoker)
	}
	if inv.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", inv.Timeout, DefaultTimeout)
	}
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	logger := Logger()
	extra := map[string]any{"tagged": true}
	b := New(
		WithTimeout(time.Minute),
		WithRendererPath("/opt/render"),
		WithDeploymentRoot("/srv"),
		WithEntrypoint("render.js"),
		WithInterpreter("node", "--no-warnings"),
		WithOptionsEnv("OPTS"),
		WithEnv("A=1"),
		WithEnv("B=2"),
		WithTempDir("/scratch"),
		WithMaxOutputBytes(1024),
		WithExtraOptions(extra),
		WithLogger(logger),
	)

	inv := b.invoker.(*Invoker)
	checks := []struct {
		name string
		ok   bool
	}{
		{"timeout", inv.Timeout == time.Minute},
		{"bundled path", inv.Locator.BundledPath == "/opt/render"},
		{"deployment root", inv.Locator.DeploymentRoot == "/srv"},
		{"entrypoint", inv.Locator.Entrypoint == "render.js"},
		{"interpreter", len(inv.Interpreter) == 2 && inv.Interpreter[0] == "node"},
		{"options env", inv.OptionsEnv == "OPTS"},
		{"env", len(inv.Env) == 2 && inv.Env[1] == "B=2"},
		{"temp dir", inv.TempDir == "/scratch"},
		{"max output", inv.MaxOutputBytes == 1024},
		{"extra options", inv.ExtraOptions["tagged"] == true},
		{"logger", inv.Logger == logger},
	}
	for _, c := range checks {
		if !c.ok {
			t.Errorf("%s not applied", c.name)
		}
	}
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{"zero timeout", func() { WithTimeout(0) }},
		{"negative timeout", func() { WithTimeout(-time.Second) }},
		{"empty options env", func() { WithOptionsEnv("") }},
		{"options env with equals", func() { WithOptionsEnv("A=B") }},
		{"zero max output", func() { WithMaxOutputBytes(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

// ---------------------------------------------------------------------------
// Render
// ---------------------------------------------------------------------------

func TestBridgeRender_ValidatesBeforeInvoking(t *testing.T) {
	t.Parallel()

	mock := &mockInvoker{}
	b := New(withInvoker(mock))

	_, err := b.Render(context.Background(), RenderRequest{
		Content: "x",
		Options: PageOptions{Scale: Ptr(-2.0)},
	})
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("err = %v, want ErrInvalidOption", err)
	}
	if mock.called {
		t.Error("invoker called with invalid options")
	}
}

func TestBridgeRender_PassesRequest(t *testing.T) {
	t.Parallel()

	mock := &mockInvoker{}
	b := New(withInvoker(mock))
	var buf bytes.Buffer

	req := RenderRequest{
		Content: "<h1>x</h1>",
		Options: PageOptions{PageFormat: "A4"},
		Sink:    ToWriter(&buf),
	}
	if _, err := b.Render(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if mock.content != req.Content || mock.opts.PageFormat != "A4" || mock.sink.String() != "stream" {
		t.Errorf("invoker got (%q, %+v, %s)", mock.content, mock.opts, mock.sink)
	}
}

func TestBridgeRenderMap(t *testing.T) {
	t.Parallel()

	t.Run("parses options", func(t *testing.T) {
		t.Parallel()

		mock := &mockInvoker{}
		b := New(withInvoker(mock))
		_, err := b.RenderMap(context.Background(), "x", map[string]string{
			KeyPageSize:    "Legal",
			KeyOrientation: "Portrait",
		}, Sink{})
		if err != nil {
			t.Fatal(err)
		}
		if mock.opts.PageFormat != "Legal" || mock.opts.Orientation != Portrait {
			t.Errorf("opts = %+v", mock.opts)
		}
	})

	t.Run("invalid scale", func(t *testing.T) {
		t.Parallel()

		mock := &mockInvoker{}
		b := New(withInvoker(mock))
		_, err := b.RenderMap(context.Background(), "x", map[string]string{KeyScale: "abc"}, Sink{})
		if !errors.Is(err, ErrInvalidOption) {
			t.Fatalf("err = %v, want ErrInvalidOption", err)
		}
		if mock.called {
			t.Error("invoker called with invalid scale")
		}
	})
}

func TestBridgeRender_EndToEnd(t *testing.T) {
	t.Parallel()

	exe, err := os.Executable()
	if err != nil {
		t.Fatal(err)
	}
	tmp := t.TempDir()

	b := New(
		WithRendererPath(exe),
		WithEnv(fakeModeEnv+"=echo"),
		WithTempDir(tmp),
	)

	var buf bytes.Buffer
	res, err := b.Render(context.Background(), RenderRequest{Content: "e2e", Sink: ToWriter(&buf)})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.String() != fakePDFHeader+"e2e" || res.Bytes != int64(buf.Len()) {
		t.Errorf("stream = %q, Bytes = %d", buf.String(), res.Bytes)
	}
	assertNoArtifacts(t, tmp)

	path, err := b.Locate()
	if err != nil || path != exe {
		t.Errorf("Locate = (%q, %v), want %q", path, err, exe)
	}
}
