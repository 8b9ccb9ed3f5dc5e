package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alnah/go-pdfbridge/internal/config"
)

// PDFBRIDGE_* environment variables.
const (
	envConfig     = "PDFBRIDGE_CONFIG"
	envRenderer   = "PDFBRIDGE_RENDERER"
	envRoot       = "PDFBRIDGE_ROOT"
	envTimeout    = "PDFBRIDGE_TIMEOUT"
	envEngine     = "PDFBRIDGE_ENGINE"
	envOutputDir  = "PDFBRIDGE_OUTPUT_DIR"
	envPageSize   = "PDFBRIDGE_PAGE_SIZE"
	envWorkers    = "PDFBRIDGE_WORKERS"
	envLogLevel   = "PDFBRIDGE_LOG_LEVEL"
	envOptionsEnv = "PDFBRIDGE_OPTIONS_ENV"
	envTempDir    = "PDFBRIDGE_TEMP_DIR"
	envStyle      = "PDFBRIDGE_STYLE"
	envVarPrefix  = "PDFBRIDGE_"
)

// knownEnvVars lists the variables the CLI reads, for typo warnings.
var knownEnvVars = map[string]bool{
	envConfig:     true,
	envRenderer:   true,
	envRoot:       true,
	envTimeout:    true,
	envEngine:     true,
	envOutputDir:  true,
	envPageSize:   true,
	envWorkers:    true,
	envLogLevel:   true,
	envOptionsEnv: true,
	envTempDir:    true,
	envStyle:      true,
}

// envOverrides holds PDFBRIDGE_* values. Empty means unset.
type envOverrides struct {
	ConfigPath string
	Renderer   string
	Root       string
	Timeout    string
	Engine     string
	OutputDir  string
	PageSize   string
	Workers    int
	LogLevel   string
	OptionsEnv string
	TempDir    string
	Style      string
}

func loadEnvOverrides(getenv func(string) string) *envOverrides {
	e := &envOverrides{
		ConfigPath: getenv(envConfig),
		Renderer:   getenv(envRenderer),
		Root:       getenv(envRoot),
		Timeout:    getenv(envTimeout),
		Engine:     getenv(envEngine),
		OutputDir:  getenv(envOutputDir),
		PageSize:   getenv(envPageSize),
		LogLevel:   getenv(envLogLevel),
		OptionsEnv: getenv(envOptionsEnv),
		TempDir:    getenv(envTempDir),
		Style:      getenv(envStyle),
	}
	if w, err := strconv.Atoi(getenv(envWorkers)); err == nil && w > 0 {
		e.Workers = w
	}
	return e
}

// warnUnknownEnvVars reports PDFBRIDGE_* variables the CLI does not read.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envVarPrefix) && !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// apply sets values on cfg. Environment beats the config file; flags are
// applied afterwards and beat both.
func (e *envOverrides) apply(cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Renderer.BundledPath, e.Renderer)
	set(&cfg.Renderer.DeploymentRoot, e.Root)
	set(&cfg.Renderer.Timeout, e.Timeout)
	set(&cfg.Renderer.Engine, e.Engine)
	set(&cfg.Renderer.OptionsEnv, e.OptionsEnv)
	set(&cfg.Renderer.TempDir, e.TempDir)
	set(&cfg.Output.DefaultDir, e.OutputDir)
	set(&cfg.Page.Size, e.PageSize)
	set(&cfg.Log.Level, e.LogLevel)
	set(&cfg.Style.Name, e.Style)
	if e.Workers > 0 {
		cfg.Workers = e.Workers
	}
}
