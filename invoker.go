package pdfbridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-pdfbridge/internal/fileutil"
	"github.com/alnah/go-pdfbridge/internal/hints"
	"github.com/alnah/go-pdfbridge/internal/process"
)

// Invoker defaults.
const (
	// DefaultTimeout bounds one renderer run, wall clock.
	DefaultTimeout = 30 * time.Second

	// DefaultOptionsEnv carries the renderer options JSON to the child.
	DefaultOptionsEnv = "PDF_OPTIONS_JSON"

	// OutputSentinel tells the renderer to write the PDF to stdout.
	OutputSentinel = "-"

	// DefaultMaxOutputBytes caps the PDF read from the renderer.
	DefaultMaxOutputBytes = 256 << 20

	maxStderrBytes = 64 << 10
)

// Invoker runs the renderer once per call: it writes the markup to a
// temporary artifact, starts the renderer with the artifact path and the
// stdout sentinel, passes options through the environment, and delivers
// stdout to the sink. The zero value is usable.
// Safe for concurrent use: calls share no mutable state.
type Invoker struct {
	Locator        Locator
	Interpreter    []string // command prefix, e.g. {"node"}; nil runs the entry point directly
	Timeout        time.Duration
	OptionsEnv     string
	Env            []string // extra KEY=VALUE pairs for the child
	TempDir        string   // "" = os.TempDir()
	MaxOutputBytes int64
	ExtraOptions   map[string]any // renderer options the mapper does not know about
	Logger         *slog.Logger
}

// Render produces a PDF from content. On success the PDF has been written
// to sink and is also returned in the result. The temporary artifact is
// removed on every path once it was created.
func (i *Invoker) Render(ctx context.Context, content string, opts PageOptions, sink Sink) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = newError(KindRenderFailed, fmt.Sprintf("internal error: %v", r), nil)
		}
	}()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := contextError(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	renderID := uuid.NewString()
	log := i.logger().With(slog.String("render_id", renderID))

	payload, err := MapOptions(opts).payload(i.ExtraOptions)
	if err != nil {
		return nil, newError(KindInvalidOption, "encoding renderer options", err)
	}

	artifact, cleanup, err := fileutil.TempFile{
		Dir:       i.TempDir,
		Prefix:    "pdfbridge-" + renderID + "-",
		Extension: "html",
	}.Write(content)
	if err != nil {
		return nil, newError(KindRenderFailed, "writing markup artifact", err)
	}
	defer cleanup()

	entry, err := i.Locator.Locate()
	if err != nil {
		return nil, err
	}

	log.Debug("starting renderer",
		slog.String("entrypoint", entry),
		slog.String("artifact", artifact),
		slog.Int("options_bytes", len(payload)))

	pdf, stderr, err := i.run(ctx, entry, artifact, payload)
	if err != nil {
		var renderErr *RenderError
		if errors.As(err, &renderErr) {
			renderErr.Stderr = stderr
		}
		log.Warn("render failed",
			slog.String("kind", string(KindOf(err))),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("stderr", stderr))
		return nil, err
	}

	n, err := sink.write(pdf)
	if err != nil {
		log.Warn("delivering PDF failed", slog.String("sink", sink.String()), slog.Any("error", err))
		return nil, newError(KindRenderFailed, "delivering PDF", err)
	}

	res = &Result{
		PDF:      pdf,
		Bytes:    n,
		Duration: time.Since(start),
		RenderID: renderID,
	}
	log.Info("rendered PDF",
		slog.String("sink", sink.String()),
		slog.Int("pdf_bytes", len(pdf)),
		slog.Duration("elapsed", res.Duration))
	if stderr != "" {
		log.Debug("renderer diagnostics", slog.String("stderr", stderr))
	}
	return res, nil
}

// run executes the renderer and classifies its outcome. It returns the
// captured stdout, the stderr tail, and a *RenderError on failure.
func (i *Invoker) run(ctx context.Context, entry, artifact string, payload []byte) ([]byte, string, error) {
	runCtx, cancel := context.WithTimeout(ctx, i.timeout())
	defer cancel()

	argv := make([]string, 0, len(i.Interpreter)+3)
	argv = append(argv, i.Interpreter...)
	argv = append(argv, entry, artifact, OutputSentinel)

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...) // #nosec G204 -- renderer path comes from trusted configuration
	process.Supervise(cmd)

	env := append(os.Environ(), i.Env...)
	cmd.Env = append(env, i.optionsEnv()+"="+string(payload))

	stdout := &limitedBuffer{max: i.maxOutput()}
	stderr := &tailBuffer{max: maxStderrBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	runErr := cmd.Run()
	diag := strings.TrimSpace(stderr.String())

	if runErr != nil || stdout.overflow {
		switch {
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, diag, newError(KindCanceled, "render canceled", ctx.Err())
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			msg := fmt.Sprintf("renderer did not finish within %s", deadlineBudget(runCtx, start))
			return nil, diag, newError(KindTimeout, msg+hints.ForTimeout(), nil)
		case stdout.overflow:
			msg := fmt.Sprintf("renderer output exceeds %d bytes", stdout.max)
			return nil, diag, newError(KindRenderFailed, msg, nil)
		case errors.Is(runErr, exec.ErrNotFound):
			msg := fmt.Sprintf("renderer command %s not found", argv[0])
			if len(i.Interpreter) > 0 {
				msg += hints.ForInterpreterMissing(argv[0])
			}
			return nil, diag, newError(KindRendererNotInstalled, msg, runErr)
		case diag != "":
			return nil, diag, newError(KindRenderFailed, "renderer error: "+diag, nil)
		default:
			return nil, diag, newError(KindRenderFailed, "renderer error", runErr)
		}
	}

	if stdout.Len() == 0 {
		msg := "renderer produced no output"
		if diag != "" {
			msg += ": " + diag
		}
		return nil, diag, newError(KindRenderFailed, msg, nil)
	}

	return stdout.Bytes(), diag, nil
}

func (i *Invoker) timeout() time.Duration {
	if i.Timeout <= 0 {
		return DefaultTimeout
	}
	return i.Timeout
}

func (i *Invoker) optionsEnv() string {
	if i.OptionsEnv == "" {
		return DefaultOptionsEnv
	}
	return i.OptionsEnv
}

func (i *Invoker) maxOutput() int64 {
	if i.MaxOutputBytes <= 0 {
		return DefaultMaxOutputBytes
	}
	return i.MaxOutputBytes
}

func (i *Invoker) logger() *slog.Logger {
	if i.Logger != nil {
		return i.Logger
	}
	return Logger()
}

// deadlineBudget is the time the renderer was given: the configured timeout
// or an earlier caller deadline.
func deadlineBudget(ctx context.Context, start time.Time) time.Duration {
	dl, ok := ctx.Deadline()
	if !ok {
		return time.Since(start).Round(time.Millisecond)
	}
	return dl.Sub(start).Round(time.Millisecond)
}

// contextError reports a context that is already done as a bridge error.
func contextError(ctx context.Context) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return newError(KindTimeout, "render deadline already passed", err)
	default:
		return newError(KindCanceled, "render canceled", err)
	}
}

var errOutputTooLarge = errors.New("output too large")

// limitedBuffer accumulates up to max bytes. Past the limit it fails the
// write, which closes the pipe and stops the renderer. The buffer is not
// embedded: io.Copy would use bytes.Buffer.ReadFrom and bypass Write.
type limitedBuffer struct {
	buf      bytes.Buffer
	max      int64
	overflow bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if int64(b.buf.Len())+int64(len(p)) > b.max {
		b.overflow = true
		return 0, errOutputTooLarge
	}
	return b.buf.Write(p)
}

func (b *limitedBuffer) Len() int { return b.buf.Len() }

func (b *limitedBuffer) Bytes() []byte { return b.buf.Bytes() }

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	buf []byte
	max int
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if n >= b.max {
		b.buf = append(b.buf[:0], p[n-b.max:]...)
		return n, nil
	}
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.max; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return n, nil
}

func (b *tailBuffer) String() string {
	return string(b.buf)
}
