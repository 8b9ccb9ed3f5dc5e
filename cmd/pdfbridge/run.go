package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// commands maps command names to their handlers.
var commands = map[string]func(context.Context, []string, *Environment) error{
	"render":     runRender,
	"doctor":     runDoctor,
	"setup":      runSetup,
	"config":     runConfig,
	"completion": runCompletion,
}

// run dispatches args to a command and returns the process exit code.
// Arguments that do not start with a command name are rendered, so
// "pdfbridge page.html" works like "pdfbridge render page.html".
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	name, rest := args[0], args[1:]
	switch name {
	case "help", "-h", "--help":
		return runHelp(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "pdfbridge %s\n", Version)
		return ExitSuccess
	}

	cmd, ok := commands[name]
	if !ok {
		if !looksLikeInput(name) {
			fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", name)
			printUsage(env.Stderr)
			return ExitUsage
		}
		cmd, rest = runRender, args
	}

	err := cmd(ctx, rest, env)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
	}
	return exitCodeFor(err)
}

// looksLikeInput reports whether arg is a flag or a file argument rather
// than a mistyped command.
func looksLikeInput(arg string) bool {
	return strings.HasPrefix(arg, "-") || strings.ContainsAny(arg, `./\`)
}
