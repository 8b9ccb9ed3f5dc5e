package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/alnah/go-pdfbridge"
	"github.com/alnah/go-pdfbridge/internal/engine"
	"github.com/alnah/go-pdfbridge/internal/fileutil"
	"github.com/alnah/go-pdfbridge/internal/hints"
)

// errNotReady is returned when doctor finds blocking problems.
var errNotReady = errors.New("environment not ready")

// versionTimeout bounds "<browser> --version".
const versionTimeout = 10 * time.Second

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"`
	Renderer rendererInfo `json:"renderer"`
	Browser  browserInfo  `json:"browser"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// rendererInfo holds renderer discovery results.
type rendererInfo struct {
	Found       bool     `json:"found"`
	Path        string   `json:"path,omitempty"`
	Candidates  []string `json:"candidates"`
	Interpreter string   `json:"interpreter,omitempty"`
	Engine      string   `json:"engine"`
	OptionsEnv  string   `json:"options_env"`
}

// browserInfo holds Chrome/Chromium detection results.
type browserInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
}

// runDoctor executes the doctor command.
func runDoctor(ctx context.Context, args []string, env *Environment) error {
	flags, _, err := parseSimpleFlags("doctor", args, env.Stderr, nil)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.config, env.Getenv)
	if err != nil {
		return err
	}
	opts, err := bridgeOptions(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		return err
	}
	opts = append(opts, env.BridgeOptions...)

	result := &doctorResult{
		Status: statusReady,
		Env:    envInfo{OS: runtime.GOOS, Arch: runtime.GOARCH},
		Renderer: rendererInfo{
			Candidates: pdfbridge.Locator{
				BundledPath:    cfg.Renderer.BundledPath,
				DeploymentRoot: cfg.Renderer.DeploymentRoot,
				Entrypoint:     cfg.Renderer.Entrypoint,
			}.Candidates(),
			Engine:     cfg.Renderer.Engine,
			OptionsEnv: cfg.Renderer.OptionsEnv,
		},
	}
	if result.Renderer.Engine == "" {
		result.Renderer.Engine = engine.NameRod
	}

	checkRenderer(result, pdfbridge.New(opts...), cfg.Renderer.Interpreter)
	checkBrowser(ctx, result, engine.ConfigFromEnv(env.Getenv))
	checkEnvironment(result, env.Getenv)
	checkSystem(result, cfg.Renderer.TempDir)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return errNotReady
	}
	return nil
}

// checkRenderer runs renderer discovery the same way a render would.
func checkRenderer(result *doctorResult, b *pdfbridge.Bridge, interpreter []string) {
	path, err := b.Locate()
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
	} else {
		result.Renderer.Found = true
		result.Renderer.Path = path
	}

	if len(interpreter) == 0 {
		return
	}
	result.Renderer.Interpreter = strings.Join(interpreter, " ")
	if _, err := exec.LookPath(interpreter[0]); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("interpreter %s not found%s", interpreter[0], hints.ForInterpreterMissing(interpreter[0])))
	}
}

// checkBrowser detects the browser the renderer would launch. A missing
// browser is only a warning: rod downloads one on first use.
func checkBrowser(ctx context.Context, result *doctorResult, cfg engine.Config) {
	result.Browser.Sandbox = !cfg.NoSandbox

	path, found := engine.LookupBrowser(cfg)
	if !found {
		if cfg.BrowserBin != "" {
			result.Errors = append(result.Errors,
				fmt.Sprintf("browser not found at %s (%s)", cfg.BrowserBin, engine.EnvBrowserBin))
			return
		}
		result.Warnings = append(result.Warnings,
			"Chrome/Chromium not found; the renderer downloads one on first run. Run 'pdfbridge setup' to do it now")
		return
	}

	result.Browser.Found = true
	result.Browser.Path = path

	vctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(vctx, path, "--version").Output() // #nosec G204 -- browser path from lookup
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get browser version: %v", err))
		return
	}
	result.Browser.Version = strings.TrimSpace(string(out))
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Browser.Sandbox {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but the browser sandbox is enabled. Set "+engine.EnvNoSandbox+"=1")
	}
}

// isContainer returns whether a container was detected and which signal said so.
func isContainer(getenv func(string) string) (bool, string) {
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the artifact directory is writable.
func checkSystem(result *doctorResult, tempDir string) {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	result.System.TempDir = tempDir
	result.System.TempWritable = fileutil.DirWritable(tempDir)
	if !result.System.TempWritable {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", tempDir))
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "pdfbridge doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Renderer")
	if r.Renderer.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Renderer.Path)
	} else {
		fmt.Fprintf(w, "  [ERROR] Not found (tried: %s)\n", strings.Join(r.Renderer.Candidates, ", "))
	}
	if r.Renderer.Interpreter != "" {
		fmt.Fprintf(w, "  [OK] Interpreter: %s\n", r.Renderer.Interpreter)
	}
	fmt.Fprintf(w, "  [OK] Engine: %s\n", r.Renderer.Engine)
	fmt.Fprintf(w, "  [OK] Options variable: %s\n", r.Renderer.OptionsEnv)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Browser")
	if r.Browser.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Browser.Path)
		if r.Browser.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Browser.Version)
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	if r.Browser.Sandbox {
		fmt.Fprintln(w, "  [OK] Sandbox: enabled")
	} else {
		fmt.Fprintln(w, "  [OK] Sandbox: disabled")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintf(w, "  [OK] Temp directory: %s (writable)\n", r.System.TempDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Temp directory: %s (not writable)\n", r.System.TempDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to render")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
