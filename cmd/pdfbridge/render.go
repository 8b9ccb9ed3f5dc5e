package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-pdfbridge"
	"github.com/alnah/go-pdfbridge/internal/assets"
	"github.com/alnah/go-pdfbridge/internal/config"
	"github.com/alnah/go-pdfbridge/internal/hints"
	"github.com/alnah/go-pdfbridge/internal/markup"
)

const dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute

// renderResult holds the outcome of a single render.
type renderResult struct {
	InputPath  string
	OutputPath string
	Bytes      int64
	RenderID   string
	Duration   time.Duration
	Err        error
}

// renderParams groups values shared across a batch.
type renderParams struct {
	hook      *pdfbridge.Hook
	generator string
	options   map[string]string
	css       string
	style     string // Markdown only
	title     string
	markdown  bool
	md        *markup.Markdown
	stdout    io.Writer
}

// runRender orchestrates the render command.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	warnUnknownEnvVars(env.Stderr, env.Environ())

	cfg, err := loadConfig(flags.common.config, env.Getenv)
	if err != nil {
		return err
	}
	mergeRenderFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(env.Stderr, cfg.Log.Level, cfg.Log.Format, flags.common.verbose, flags.common.quiet)
	if err != nil {
		return err
	}

	output := flags.output
	if output == "" {
		output = cfg.Output.DefaultDir
	}
	if output == stdoutTarget && flags.common.json {
		return fmt.Errorf("%w: --json cannot be combined with -o -", ErrUsage)
	}

	files, err := discoverInputs(positional, output)
	if err != nil {
		return err
	}

	options := cfg.PageOptionMap()
	if _, err := pdfbridge.ParseOptions(options); err != nil {
		return err
	}

	css, err := readCSS(flags.css)
	if err != nil {
		return err
	}

	var style string
	if hasMarkdown(files, flags.markdown) {
		if style, err = resolveStyle(cfg.Style); err != nil {
			return err
		}
	}

	bridgeOpts, err := bridgeOptions(cfg, logger)
	if err != nil {
		return err
	}
	bridgeOpts = append(bridgeOpts, env.BridgeOptions...)

	generator := flags.generator
	if generator == "" {
		generator = cfg.Renderer.Generator
	}

	params := &renderParams{
		hook:      &pdfbridge.Hook{Bridge: pdfbridge.New(bridgeOpts...), Generator: cfg.Renderer.Generator},
		generator: generator,
		options:   options,
		css:       css,
		style:     style,
		title:     flags.title,
		markdown:  flags.markdown,
		md:        markup.NewMarkdown(),
		stdout:    env.Stdout,
	}

	workers := resolveWorkers(cfg.Workers, len(files))
	logger.Debug("rendering", "files", len(files), "workers", workers, "generator", generator)

	results := renderBatch(ctx, files, workers, params)

	// the PDF owns stdout when streaming
	report := env.Stdout
	if output == stdoutTarget {
		report = env.Stderr
	}

	var failed int
	if flags.common.json {
		failed = printResultsJSON(report, results)
	} else {
		failed = printResults(report, env.Stderr, results, flags.common.quiet, flags.common.verbose)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d render(s) failed: %w", failed, len(results), firstError(results))
	}
	return nil
}

// loadConfig resolves the config file (flag, then PDFBRIDGE_CONFIG) and
// applies environment overrides on top.
func loadConfig(name string, getenv func(string) string) (*config.Config, error) {
	env := loadEnvOverrides(getenv)
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	env.apply(cfg)
	return cfg, nil
}

// mergeRenderFlags merges CLI flags into config. CLI values override config values.
func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.Style.Name, f.style)
	set(&cfg.Style.Dir, f.styleDir)
	set(&cfg.Renderer.BundledPath, f.renderer.path)
	set(&cfg.Renderer.DeploymentRoot, f.renderer.root)
	set(&cfg.Renderer.Engine, f.renderer.engine)
	set(&cfg.Renderer.Timeout, f.renderer.timeout)
	if len(f.renderer.interpreter) > 0 {
		cfg.Renderer.Interpreter = f.renderer.interpreter
	}

	p := f.page
	set(&cfg.Page.Size, p.size)
	set(&cfg.Page.Orientation, p.orientation)
	for _, dst := range []*string{&cfg.Page.MarginTop, &cfg.Page.MarginRight, &cfg.Page.MarginBottom, &cfg.Page.MarginLeft} {
		set(dst, p.margin)
	}
	set(&cfg.Page.MarginTop, p.marginTop)
	set(&cfg.Page.MarginRight, p.marginRight)
	set(&cfg.Page.MarginBottom, p.marginBottom)
	set(&cfg.Page.MarginLeft, p.marginLeft)
	set(&cfg.Page.PageRanges, p.pageRanges)
	set(&cfg.Page.Scale, p.scale)
	if p.backgroundSet {
		cfg.Page.PrintBackground = p.printBackground
	}

	if f.workers > 0 {
		cfg.Workers = f.workers
	}
}

// bridgeOptions translates renderer configuration into bridge options.
func bridgeOptions(cfg *config.Config, logger *slog.Logger) ([]pdfbridge.Option, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	r := cfg.Renderer
	opts := []pdfbridge.Option{
		pdfbridge.WithTimeout(timeout),
		pdfbridge.WithLogger(logger),
	}
	if r.BundledPath != "" {
		opts = append(opts, pdfbridge.WithRendererPath(r.BundledPath))
	}
	if r.DeploymentRoot != "" {
		opts = append(opts, pdfbridge.WithDeploymentRoot(r.DeploymentRoot))
	}
	if r.Entrypoint != "" {
		opts = append(opts, pdfbridge.WithEntrypoint(r.Entrypoint))
	}
	if len(r.Interpreter) > 0 {
		opts = append(opts, pdfbridge.WithInterpreter(r.Interpreter...))
	}
	if r.OptionsEnv != "" {
		opts = append(opts, pdfbridge.WithOptionsEnv(r.OptionsEnv))
	}
	if r.TempDir != "" {
		opts = append(opts, pdfbridge.WithTempDir(r.TempDir))
	}
	if r.MaxOutputBytes > 0 {
		opts = append(opts, pdfbridge.WithMaxOutputBytes(r.MaxOutputBytes))
	}
	if len(cfg.ExtraOptions) > 0 {
		opts = append(opts, pdfbridge.WithExtraOptions(cfg.ExtraOptions))
	}
	if r.Engine != "" {
		opts = append(opts, pdfbridge.WithEnv(envEngine+"="+r.Engine))
	}
	return opts, nil
}

func readCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided stylesheet
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(data), nil
}

// resolveStyle loads the stylesheet for Markdown documents.
func resolveStyle(sc config.StyleConfig) (string, error) {
	resolver, err := assets.NewResolver(sc.Dir)
	if err != nil {
		return "", err
	}
	return resolver.Resolve(sc.Name)
}

func hasMarkdown(files []fileToRender, force bool) bool {
	if force {
		return true
	}
	for _, f := range files {
		if isMarkdown(f.InputPath) {
			return true
		}
	}
	return false
}

// renderBatch renders files with at most workers renderer processes at once.
// Results keep the order of files.
func renderBatch(ctx context.Context, files []fileToRender, workers int, p *renderParams) []renderResult {
	results := make([]renderResult, len(files))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			results[i] = renderFile(ctx, f, p)
			return nil
		})
	}
	_ = g.Wait() // renderFile reports through results
	return results
}

// renderFile processes a single file and returns the result.
func renderFile(ctx context.Context, f fileToRender, p *renderParams) renderResult {
	start := time.Now()
	result := renderResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	fail := func(err error) renderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadInput, err))
	}

	doc, err := p.prepare(ctx, f.InputPath, string(content))
	if err != nil {
		return fail(err)
	}

	sink := pdfbridge.ToWriter(p.stdout)
	if f.OutputPath != stdoutTarget {
		if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
			return fail(fmt.Errorf("%w: creating output directory: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory()))
		}
		sink = pdfbridge.ToFile(f.OutputPath)
	}

	handled, res, err := p.hook.GetPDF(ctx, "pdf", doc, p.options, sink, p.generator)
	if !handled {
		return fail(fmt.Errorf("%w: generator %q is not handled by this bridge (configured: %q)",
			ErrUsage, p.generator, p.hook.Generator))
	}
	if err != nil {
		return fail(err)
	}

	result.Bytes = res.Bytes
	result.RenderID = res.RenderID
	result.Duration = time.Since(start)
	return result
}

// prepare turns file content into the HTML document handed to the renderer.
// Relative asset references are resolved against the source directory since
// the renderer reads the document from the temp directory.
func (p *renderParams) prepare(ctx context.Context, path, content string) (string, error) {
	doc := content
	if p.markdown || isMarkdown(path) {
		title := p.title
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		var err error
		if doc, err = p.md.ToHTML(ctx, title, content); err != nil {
			return "", err
		}
		if p.style != "" {
			doc = markup.InjectCSS(doc, p.style)
		}
	}
	if p.css != "" {
		doc = markup.InjectCSS(doc, p.css)
	}
	resolved, err := markup.ResolveAssets(doc, filepath.Dir(path))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return resolved, nil
}

// printResults outputs render results and returns the failure count.
func printResults(out, errOut io.Writer, results []renderResult, quiet, verbose bool) int {
	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(errOut, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}
		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(out, "%s -> %s (%d bytes, %v, %s)\n",
				r.InputPath, displayPath(r.OutputPath), r.Bytes, r.Duration.Round(time.Millisecond), r.RenderID)
		} else {
			fmt.Fprintf(out, "Created %s\n", displayPath(r.OutputPath))
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(out, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return failed
}

// jsonResult is the --json shape of one render.
type jsonResult struct {
	Input      string          `json:"input"`
	Output     string          `json:"output"`
	Bytes      int64           `json:"bytes,omitempty"`
	DurationMS int64           `json:"duration_ms"`
	RenderID   string          `json:"render_id,omitempty"`
	Error      *goerrors.Error `json:"error,omitempty"`
}

// printResultsJSON writes results as a JSON array and returns the failure count.
func printResultsJSON(w io.Writer, results []renderResult) int {
	var failed int
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		jr := jsonResult{
			Input:      r.InputPath,
			Output:     r.OutputPath,
			Bytes:      r.Bytes,
			DurationMS: r.Duration.Milliseconds(),
			RenderID:   r.RenderID,
		}
		if r.Err != nil {
			failed++
			jr.Error = pdfbridge.AsGoError(r.Err)
		}
		out = append(out, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
	return failed
}

func firstError(results []renderResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

func displayPath(p string) string {
	if p == stdoutTarget {
		return "stdout"
	}
	return p
}
