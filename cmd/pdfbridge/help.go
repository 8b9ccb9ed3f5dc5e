package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-pdfbridge/internal/assets"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfbridge <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render HTML or Markdown files to PDF (default)")
	fmt.Fprintln(w, "  doctor     Check the renderer, browser and environment")
	fmt.Fprintln(w, "  setup      Download the headless browser used by the renderer")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  completion Generate a shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pdfbridge help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfbridge render <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render HTML or Markdown files to PDF through the renderer process.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .html, .htm, .md or .markdown file, or a directory of them")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>         Output file, directory, or - for stdout")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>           Parallel renders (0 = auto)")
	fmt.Fprintln(w, "      --css <path>            Stylesheet injected into every document")
	fmt.Fprintln(w, "      --markdown              Treat every input as Markdown")
	fmt.Fprintln(w, "      --title <s>             Document title for Markdown input")
	fmt.Fprintln(w, "  -s, --style <name>          Markdown style: "+strings.Join(assets.Builtin(), ", ")+", a .css file, or none")
	fmt.Fprintln(w, "      --style-dir <dir>       Custom styles, searched before the built-ins")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Renderer:")
	fmt.Fprintln(w, "      --renderer <path>       Renderer entry point")
	fmt.Fprintln(w, "      --root <dir>            Fallback directory searched for the renderer")
	fmt.Fprintln(w, "      --interpreter <cmd>     Command that runs the entry point (e.g. node)")
	fmt.Fprintln(w, "      --engine <s>            Browser engine: rod, chromedp")
	fmt.Fprintln(w, "      --generator <s>         Requested generator (default: renderer.generator)")
	fmt.Fprintln(w, "  -t, --timeout <d>           Render timeout (default 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>         A3, A4, A5, Letter, Legal, Tabloid")
	fmt.Fprintln(w, "      --orientation <s>       portrait, landscape")
	fmt.Fprintln(w, "      --margin <len>          All four margins (e.g. 12mm)")
	fmt.Fprintln(w, "      --margin-top <len>      Top margin")
	fmt.Fprintln(w, "      --margin-right <len>    Right margin")
	fmt.Fprintln(w, "      --margin-bottom <len>   Bottom margin")
	fmt.Fprintln(w, "      --margin-left <len>     Left margin")
	fmt.Fprintln(w, "                              Units: in, cm, mm, pt, px")
	fmt.Fprintln(w, "      --print-background      Print background colors and images (=false overrides config)")
	fmt.Fprintln(w, "      --page-ranges <s>       Pages to print (e.g. 1-3,5)")
	fmt.Fprintln(w, "      --scale <f>             Rendering scale (0.1-2.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show sizes, timing and render ids")
	fmt.Fprintln(w, "      --json                  Print results as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 ok, 1 error, 2 usage or option, 3 I/O, 4 renderer")
}

// printCommandUsage prints usage for the commands without a dedicated page.
func printCommandUsage(w io.Writer, name string) {
	switch name {
	case "doctor":
		fmt.Fprintln(w, "Usage: pdfbridge doctor [--json] [-c <config>]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Check renderer discovery, interpreter, browser and temp directory.")
	case "setup":
		fmt.Fprintln(w, "Usage: pdfbridge setup [--check]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Download the pinned Chromium build. Safe to run repeatedly.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "      --check     Only report whether a browser is available")
	case "config":
		fmt.Fprintln(w, "Usage: pdfbridge config [-c <config>]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print the effective configuration as YAML (file, then PDFBRIDGE_* overrides).")
	case "completion":
		printCompletionUsage(w)
	case "version":
		fmt.Fprintln(w, "Usage: pdfbridge version")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show version information.")
	case "help":
		fmt.Fprintln(w, "Usage: pdfbridge help [command]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show help for a command.")
	}
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "doctor", "setup", "config", "completion", "version", "help":
		printCommandUsage(env.Stdout, args[0])
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
