package pdfbridge

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// renderInvoker is the seam between the bridge and the child process.
type renderInvoker interface {
	Render(ctx context.Context, content string, opts PageOptions, sink Sink) (*Result, error)
}

var _ renderInvoker = (*Invoker)(nil)

// Bridge is the host-facing entry point: it validates and maps options, then
// hands the render to an Invoker. Create with New.
// Safe for concurrent use.
type Bridge struct {
	invoker renderInvoker
	cfg     Invoker
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithTimeout sets the wall-clock limit for one renderer run.
// Panics if d <= 0.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("pdfbridge: WithTimeout duration must be positive")
	}
	return func(b *Bridge) {
		b.cfg.Timeout = d
	}
}

// WithRendererPath sets the bundled renderer entry point explicitly instead
// of looking next to the running executable.
func WithRendererPath(path string) Option {
	return func(b *Bridge) {
		b.cfg.Locator.BundledPath = path
	}
}

// WithDeploymentRoot sets the fallback directory searched for the renderer.
func WithDeploymentRoot(dir string) Option {
	return func(b *Bridge) {
		b.cfg.Locator.DeploymentRoot = dir
	}
}

// WithEntrypoint sets the renderer entry point file name.
func WithEntrypoint(name string) Option {
	return func(b *Bridge) {
		b.cfg.Locator.Entrypoint = name
	}
}

// WithInterpreter runs the entry point through a command, e.g. "node".
func WithInterpreter(argv ...string) Option {
	return func(b *Bridge) {
		b.cfg.Interpreter = append([]string(nil), argv...)
	}
}

// WithOptionsEnv sets the environment variable that carries options JSON.
// Panics if name is empty or contains '='.
func WithOptionsEnv(name string) Option {
	if name == "" || strings.Contains(name, "=") {
		panic("pdfbridge: WithOptionsEnv name must be a non-empty variable name")
	}
	return func(b *Bridge) {
		b.cfg.OptionsEnv = name
	}
}

// WithEnv adds KEY=VALUE pairs to the renderer environment.
func WithEnv(kv ...string) Option {
	return func(b *Bridge) {
		b.cfg.Env = append(b.cfg.Env, kv...)
	}
}

// WithTempDir sets where markup artifacts are written.
func WithTempDir(dir string) Option {
	return func(b *Bridge) {
		b.cfg.TempDir = dir
	}
}

// WithMaxOutputBytes caps the PDF size read from the renderer.
// Panics if n <= 0.
func WithMaxOutputBytes(n int64) Option {
	if n <= 0 {
		panic("pdfbridge: WithMaxOutputBytes must be positive")
	}
	return func(b *Bridge) {
		b.cfg.MaxOutputBytes = n
	}
}

// WithExtraOptions adds renderer options the mapper does not produce.
// Mapped options take precedence on conflicting keys.
func WithExtraOptions(extra map[string]any) Option {
	return func(b *Bridge) {
		b.cfg.ExtraOptions = extra
	}
}

// WithLogger sets the logger for this bridge. Without it the package-wide
// logger is used (see SetLogger).
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		b.cfg.Logger = l
	}
}

// New creates a Bridge. Renderer discovery happens per call, so New never
// fails on a missing renderer.
func New(opts ...Option) *Bridge {
	b := &Bridge{cfg: Invoker{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(b)
	}
	if b.invoker == nil {
		inv := b.cfg
		b.invoker = &inv
	}
	return b
}

// Render renders req.Content with req.Options into req.Sink.
func (b *Bridge) Render(ctx context.Context, req RenderRequest) (*Result, error) {
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}
	return b.invoker.Render(ctx, req.Content, req.Options, req.Sink)
}

// RenderMap renders content using the generic string option map hosts pass
// to PDF generators (see ParseOptions for keys).
func (b *Bridge) RenderMap(ctx context.Context, content string, raw map[string]string, sink Sink) (*Result, error) {
	opts, err := ParseOptions(raw)
	if err != nil {
		return nil, err
	}
	return b.invoker.Render(ctx, content, opts, sink)
}

// Locate reports the renderer entry point this bridge would run.
func (b *Bridge) Locate() (string, error) {
	return b.cfg.Locator.Locate()
}
