package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-pdfbridge/internal/assets"
	"github.com/alnah/go-pdfbridge/internal/engine"
)

// Shell is a shell that completion scripts can be generated for.
type Shell string

// Supported shells.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned for an unknown shell name.
var ErrUnsupportedShell = errors.New("unsupported shell")

// inputPattern lists the extensions render accepts.
const inputPattern = "*.html,*.htm,*.md,*.markdown"

type flagKind int

const (
	kindString flagKind = iota
	kindBool
	kindNumber
	kindEnum
	kindFile
	kindDir
)

// flagDef describes one flag for completion.
type flagDef struct {
	Long   string
	Short  string
	Kind   flagKind
	Desc   string
	Values []string // kindEnum
	Glob   string   // kindFile
}

// commandDef describes one command for completion.
type commandDef struct {
	Name       string
	Desc       string
	Flags      []flagDef
	TakesFiles bool
}

// completionHints adds value hints the FlagSet cannot express.
// Names, shorthands and descriptions come from the FlagSets themselves.
var completionHints = map[string]flagDef{
	"page-size":   {Kind: kindEnum, Values: []string{"A4", "A3", "A5", "Letter", "Legal", "Tabloid"}},
	"orientation": {Kind: kindEnum, Values: []string{"portrait", "landscape"}},
	"engine":      {Kind: kindEnum, Values: engine.Names()},
	"config":      {Kind: kindFile, Glob: "*.yaml,*.yml"},
	"css":         {Kind: kindFile, Glob: "*.css"},
	"renderer":    {Kind: kindFile},
	"output":      {Kind: kindDir},
	"root":        {Kind: kindDir},
	"style-dir":   {Kind: kindDir},
}

// flagDefs reads flag definitions from fs and applies completionHints.
func flagDefs(fs *flag.FlagSet) []flagDef {
	var defs []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		d := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}
		switch f.Value.Type() {
		case "bool":
			d.Kind = kindBool
		case "int", "int64", "float64":
			d.Kind = kindNumber
		}
		if h, ok := completionHints[f.Name]; ok {
			d.Kind, d.Values, d.Glob = h.Kind, h.Values, h.Glob
		}
		if f.Name == "style" {
			d.Kind = kindEnum
			d.Values = append(assets.Builtin(), assets.NoStyle)
		}
		defs = append(defs, d)
	})
	return defs
}

// completionCommands returns the command registry, built from the same
// FlagSets the commands parse with.
func completionCommands() []commandDef {
	simple := func(name string, extra func(*flag.FlagSet)) []flagDef {
		return flagDefs(newSimpleFlagSet(name, &commonFlags{}, extra))
	}
	var check bool

	return []commandDef{
		{Name: "render", Desc: "Render HTML or Markdown files to PDF", Flags: flagDefs(newRenderFlagSet(&renderFlags{})), TakesFiles: true},
		{Name: "doctor", Desc: "Check the renderer, browser and environment", Flags: simple("doctor", nil)},
		{Name: "setup", Desc: "Download the headless browser", Flags: simple("setup", func(fs *flag.FlagSet) { addSetupFlags(fs, &check) })},
		{Name: "config", Desc: "Print the effective configuration", Flags: simple("config", nil)},
		{Name: "completion", Desc: "Generate a shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	cmds := completionCommands()
	switch shell {
	case ShellBash:
		return generateBash(w, cmds)
	case ShellZsh:
		return generateZsh(w, cmds)
	case ShellFish:
		return generateFish(w, cmds)
	case ShellPowerShell:
		return generatePowerShell(w, cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

func runCompletion(_ context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfbridge completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a completion script for bash, zsh, fish or powershell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  bash        eval \"$(pdfbridge completion bash)\"  # in ~/.bashrc")
	fmt.Fprintln(w, "  zsh         eval \"$(pdfbridge completion zsh)\"   # in ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  fish        pdfbridge completion fish > ~/.config/fish/completions/pdfbridge.fish")
	fmt.Fprintln(w, "  powershell  pdfbridge completion powershell | Out-String | Invoke-Expression")
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// globExtensions turns "*.md,*.markdown" into "md|markdown".
func globExtensions(glob string) string {
	parts := strings.Split(glob, ",")
	for i, p := range parts {
		parts[i] = strings.TrimPrefix(p, "*.")
	}
	return strings.Join(parts, "|")
}

func generateBash(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# bash completion for pdfbridge\n")
	b.WriteString("_pdfbridge_completions() {\n")
	b.WriteString("  local cur prev cmd\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("  prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("  cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("  if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "    COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\") $(compgen -f -X '!*.@(%s)' -- \"${cur}\"))\n",
		commandNames(cmds), globExtensions(inputPattern))
	b.WriteString("    return\n  fi\n\n")
	b.WriteString("  case \"${cmd}\" in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		if c.Name == "completion" {
			b.WriteString("      COMPREPLY=($(compgen -W \"bash zsh fish powershell\" -- \"${cur}\"))\n      return\n      ;;\n")
			continue
		}
		if c.Name == "help" {
			fmt.Fprintf(&b, "      COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n      return\n      ;;\n", commandNames(cmds))
			continue
		}
		b.WriteString("      case \"${prev}\" in\n")
		var all []string
		for _, f := range c.Flags {
			names := "--" + f.Long
			all = append(all, "--"+f.Long)
			if f.Short != "" {
				names += "|-" + f.Short
				all = append(all, "-"+f.Short)
			}
			switch f.Kind {
			case kindEnum:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\")); return ;;\n", names, strings.Join(f.Values, " "))
			case kindFile:
				if f.Glob == "" {
					fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -f -- \"${cur}\")); return ;;\n", names)
				} else {
					fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"${cur}\")); return ;;\n", names, globExtensions(f.Glob))
				}
			case kindDir:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -d -- \"${cur}\")); return ;;\n", names)
			case kindString, kindNumber:
				fmt.Fprintf(&b, "        %s) return ;;\n", names)
			}
		}
		b.WriteString("      esac\n")
		fmt.Fprintf(&b, "      if [[ \"${cur}\" == -* ]]; then\n        COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(all, " "))
		if c.TakesFiles {
			fmt.Fprintf(&b, "      else\n        COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"${cur}\") $(compgen -d -- \"${cur}\"))\n", globExtensions(inputPattern))
		}
		b.WriteString("      fi\n      ;;\n")
	}
	b.WriteString("  esac\n}\n\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -F _pdfbridge_completions pdfbridge\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshEscape escapes characters special inside _arguments specs.
func zshEscape(s string) string {
	r := strings.NewReplacer("[", "\\[", "]", "\\]", ":", "\\:", "'", "'\\''")
	return r.Replace(s)
}

func generateZsh(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("#compdef pdfbridge\n\n")
	b.WriteString("_pdfbridge() {\n")
	b.WriteString("  local -a commands\n  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n")
	fmt.Fprintf(&b, "    _files -g '*.(%s)'\n", globExtensions(inputPattern))
	b.WriteString("    return\n  fi\n\n")
	b.WriteString("  case \"${words[2]}\" in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		switch c.Name {
		case "completion":
			b.WriteString("      _values 'shell' bash zsh fish powershell\n      ;;\n")
			continue
		case "help":
			b.WriteString("      _describe 'command' commands\n      ;;\n")
			continue
		}
		b.WriteString("      _arguments \\\n")
		for _, f := range c.Flags {
			action := ""
			switch f.Kind {
			case kindEnum:
				action = ":value:(" + strings.Join(f.Values, " ") + ")"
			case kindFile:
				if f.Glob == "" {
					action = ":file:_files"
				} else {
					action = ":file:_files -g '*.(" + globExtensions(f.Glob) + ")'"
				}
			case kindDir:
				action = ":directory:_files -/"
			case kindString, kindNumber:
				action = ":value:"
			}
			desc := zshEscape(f.Desc)
			if f.Short != "" {
				fmt.Fprintf(&b, "        '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", f.Short, f.Long, f.Short, f.Long, desc, action)
			} else {
				fmt.Fprintf(&b, "        '--%s[%s]%s' \\\n", f.Long, desc, action)
			}
		}
		if c.TakesFiles {
			fmt.Fprintf(&b, "        '*:input:_files -g \"*.(%s)\"'\n", globExtensions(inputPattern))
		} else {
			b.WriteString("        '*::'\n")
		}
		b.WriteString("      ;;\n")
	}
	b.WriteString("  esac\n}\n\n")
	b.WriteString("compdef _pdfbridge pdfbridge\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateFish(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for pdfbridge\n\n")
	b.WriteString("function __fish_pdfbridge_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_pdfbridge_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c pdfbridge -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c pdfbridge -n __fish_pdfbridge_needs_command -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	b.WriteString("complete -c pdfbridge -n '__fish_pdfbridge_using_command completion' -a 'bash zsh fish powershell'\n")
	b.WriteString("complete -c pdfbridge -n '__fish_pdfbridge_using_command help' -a '" + commandNames(cmds) + "'\n")

	for _, c := range cmds {
		cond := "'__fish_pdfbridge_using_command " + c.Name + "'"
		if c.TakesFiles {
			fmt.Fprintf(&b, "complete -c pdfbridge -n %s -F\n", cond)
		}
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c pdfbridge -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			switch f.Kind {
			case kindEnum:
				fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
			case kindFile, kindDir:
				b.WriteString(" -r -F")
			case kindString, kindNumber:
				b.WriteString(" -x")
			}
			fmt.Fprintf(&b, " -d '%s'\n", fishEscape(f.Desc))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

func generatePowerShell(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# PowerShell completion for pdfbridge\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName pdfbridge -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $commands = @{\n")
	for _, c := range cmds {
		var names []string
		for _, f := range c.Flags {
			names = append(names, "'--"+f.Long+"'")
			if f.Short != "" {
				names = append(names, "'-"+f.Short+"'")
			}
		}
		fmt.Fprintf(&b, "        '%s' = @(%s)\n", c.Name, strings.Join(names, ", "))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    $elements = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    if ($elements.Count -le 1 -or ($elements.Count -eq 2 -and $wordToComplete)) {\n")
	b.WriteString("        $commands.Keys | Where-Object { $_ -like \"$wordToComplete*\" } | Sort-Object | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n        return\n    }\n\n")
	b.WriteString("    $flags = $commands[$elements[1]]\n")
	b.WriteString("    if ($flags -and $wordToComplete -like '-*') {\n")
	b.WriteString("        $flags | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}
