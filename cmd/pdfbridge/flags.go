package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	json    bool
}

// rendererFlags locate and run the renderer.
type rendererFlags struct {
	path        string
	root        string
	engine      string
	interpreter []string
	timeout     string
}

// pageFlags use the generic option map syntax; empty means "not given".
type pageFlags struct {
	size            string
	orientation     string
	margin          string
	marginTop       string
	marginRight     string
	marginBottom    string
	marginLeft      string
	printBackground bool
	backgroundSet   bool // --print-background given, true or false
	pageRanges      string
	scale           string
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common    commonFlags
	renderer  rendererFlags
	page      pageFlags
	output    string
	workers   int
	css       string
	style     string
	styleDir  string
	title     string
	markdown  bool
	generator string
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log render details to stderr")
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
}

func addRendererFlags(fs *flag.FlagSet, f *rendererFlags) {
	fs.StringVar(&f.path, "renderer", "", "renderer entry point path")
	fs.StringVar(&f.root, "root", "", "fallback directory searched for the renderer")
	fs.StringVar(&f.engine, "engine", "", "browser engine used by the renderer: rod, chromedp")
	fs.StringSliceVar(&f.interpreter, "interpreter", nil, "command that runs the entry point (e.g. node)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout (e.g. 30s, 2m)")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page format: A4, Letter, Legal, ...")
	fs.StringVar(&f.orientation, "orientation", "", "portrait or landscape")
	fs.StringVar(&f.margin, "margin", "", "all four margins (e.g. 12mm)")
	fs.StringVar(&f.marginTop, "margin-top", "", "top margin")
	fs.StringVar(&f.marginRight, "margin-right", "", "right margin")
	fs.StringVar(&f.marginBottom, "margin-bottom", "", "bottom margin")
	fs.StringVar(&f.marginLeft, "margin-left", "", "left margin")
	fs.BoolVar(&f.printBackground, "print-background", false, "print background colors and images (=false overrides config)")
	fs.StringVar(&f.pageRanges, "page-ranges", "", "pages to print (e.g. 1-3,5)")
	fs.StringVar(&f.scale, "scale", "", "rendering scale (e.g. 0.8)")
}

// newRenderFlagSet registers every render flag on a fresh FlagSet bound to f.
func newRenderFlagSet(f *renderFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "output file, directory, or - for stdout")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renders (0 = auto)")
	fs.StringVar(&f.css, "css", "", "stylesheet file injected into every document")
	fs.StringVarP(&f.style, "style", "s", "", "Markdown style: name, .css file, or none")
	fs.StringVar(&f.styleDir, "style-dir", "", "directory of custom styles, searched before built-ins")
	fs.StringVar(&f.title, "title", "", "document title for Markdown input")
	fs.BoolVar(&f.markdown, "markdown", false, "treat every input as Markdown")
	fs.StringVar(&f.generator, "generator", "", "requested PDF generator (default: renderer.generator)")

	addCommonFlags(fs, &f.common)
	addRendererFlags(fs, &f.renderer)
	addPageFlags(fs, &f.page)
	return fs
}

// parseRenderFlags parses render flags and returns positional args.
func parseRenderFlags(args []string, usage io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newRenderFlagSet(f)
	fs.SetOutput(usage)
	fs.Usage = func() { printRenderUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	f.page.backgroundSet = fs.Changed("print-background")
	return f, fs.Args(), nil
}

func addSetupFlags(fs *flag.FlagSet, check *bool) {
	fs.BoolVar(check, "check", false, "only report whether a browser is available")
}

// newSimpleFlagSet registers the common flags plus any extra ones.
func newSimpleFlagSet(name string, f *commonFlags, extra func(*flag.FlagSet)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	addCommonFlags(fs, f)
	if extra != nil {
		extra(fs)
	}
	return fs
}

// parseSimpleFlags parses the flags of doctor, setup and config.
func parseSimpleFlags(name string, args []string, usage io.Writer, extra func(*flag.FlagSet)) (*commonFlags, []string, error) {
	f := &commonFlags{}
	fs := newSimpleFlagSet(name, f, extra)
	fs.SetOutput(usage)
	fs.Usage = func() { printCommandUsage(usage, name) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

// usageError marks a parse failure as a usage error. --help passes through.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
