// Package config loads pdfbridge YAML configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-pdfbridge"
	"github.com/alnah/go-pdfbridge/internal/fileutil"
	"github.com/alnah/go-pdfbridge/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// SearchDir is the directory under os.UserConfigDir searched for named configs.
const SearchDir = "go-pdfbridge"

// Field length limits.
const (
	MaxPathLength   = 4096
	MaxNameLength   = 100
	MaxLengthValue  = 20 // "12.5mm"
	MaxRangesLength = 200
)

// MaxWorkers caps parallel renders in the CLI.
const MaxWorkers = 32

// Config holds all pdfbridge configuration.
type Config struct {
	Renderer     RendererConfig `yaml:"renderer"`
	Page         PageConfig     `yaml:"page"`
	ExtraOptions map[string]any `yaml:"extraOptions,omitempty"` // passed to the renderer as-is
	Output       OutputConfig   `yaml:"output"`
	Style        StyleConfig    `yaml:"style"`
	Log          LogConfig      `yaml:"log"`
	Workers      int            `yaml:"workers"` // 0 = auto
}

// RendererConfig locates and runs the renderer process.
type RendererConfig struct {
	BundledPath    string   `yaml:"bundledPath"`    // empty = next to the executable
	DeploymentRoot string   `yaml:"deploymentRoot"` // fallback search directory
	Entrypoint     string   `yaml:"entrypoint"`     // empty = pdfbridge-render
	Interpreter    []string `yaml:"interpreter"`    // e.g. [node]
	Timeout        string   `yaml:"timeout"`        // Go duration, default 30s
	OptionsEnv     string   `yaml:"optionsEnv"`     // default PDF_OPTIONS_JSON
	Generator      string   `yaml:"generator"`      // hook name, default puppeteer
	TempDir        string   `yaml:"tempDir"`
	MaxOutputBytes int64    `yaml:"maxOutputBytes"`
	Engine         string   `yaml:"engine"` // rod or chromedp, forwarded as PDFBRIDGE_ENGINE
}

// PageConfig holds default page options. Values use the same syntax as
// the generic option map (see pdfbridge.ParseOptions).
type PageConfig struct {
	Size            string `yaml:"size"`
	Orientation     string `yaml:"orientation"`
	MarginTop       string `yaml:"marginTop"`
	MarginRight     string `yaml:"marginRight"`
	MarginBottom    string `yaml:"marginBottom"`
	MarginLeft      string `yaml:"marginLeft"`
	PrintBackground bool   `yaml:"printBackground"`
	PageRanges      string `yaml:"pageRanges"`
	Scale           string `yaml:"scale"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
}

// StyleConfig selects the stylesheet applied to Markdown input.
type StyleConfig struct {
	Name string `yaml:"name"` // built-in or custom name, a .css path, or "none"
	Dir  string `yaml:"dir"`  // custom styles, searched before the built-ins
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default warn)
	Format string `yaml:"format"` // text or json (default text)
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Renderer: RendererConfig{
			Timeout:    pdfbridge.DefaultTimeout.String(),
			OptionsEnv: pdfbridge.DefaultOptionsEnv,
			Generator:  pdfbridge.DefaultGenerator,
		},
		Log: LogConfig{Level: "warn", Format: "text"},
	}
}

// Validate checks the configuration. LoadConfig calls it; callers that
// build a Config by hand should too.
func (c *Config) Validate() error {
	r := c.Renderer
	for _, f := range []struct {
		name, value string
		max         int
	}{
		{"renderer.bundledPath", r.BundledPath, MaxPathLength},
		{"renderer.deploymentRoot", r.DeploymentRoot, MaxPathLength},
		{"renderer.entrypoint", r.Entrypoint, MaxPathLength},
		{"renderer.tempDir", r.TempDir, MaxPathLength},
		{"renderer.optionsEnv", r.OptionsEnv, MaxNameLength},
		{"renderer.generator", r.Generator, MaxNameLength},
		{"page.size", c.Page.Size, MaxNameLength},
		{"page.marginTop", c.Page.MarginTop, MaxLengthValue},
		{"page.marginRight", c.Page.MarginRight, MaxLengthValue},
		{"page.marginBottom", c.Page.MarginBottom, MaxLengthValue},
		{"page.marginLeft", c.Page.MarginLeft, MaxLengthValue},
		{"page.pageRanges", c.Page.PageRanges, MaxRangesLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"style.name", c.Style.Name, MaxPathLength},
		{"style.dir", c.Style.Dir, MaxPathLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if strings.Contains(r.OptionsEnv, "=") {
		return fmt.Errorf("%w: renderer.optionsEnv %q must not contain '='", ErrInvalidValue, r.OptionsEnv)
	}
	if r.MaxOutputBytes < 0 {
		return fmt.Errorf("%w: renderer.maxOutputBytes must not be negative", ErrInvalidValue)
	}
	switch strings.ToLower(r.Engine) {
	case "", "rod", "chromedp":
	default:
		return fmt.Errorf("%w: renderer.engine %q (must be rod or chromedp)", ErrInvalidValue, r.Engine)
	}

	if _, err := c.PageOptions(); err != nil {
		return fmt.Errorf("page: %w", err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn or error)", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q (must be text or json)", ErrInvalidValue, c.Log.Format)
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}
	return nil
}

// TimeoutDuration parses renderer.timeout. Empty means the bridge default.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Renderer.Timeout == "" {
		return pdfbridge.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Renderer.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: renderer.timeout %q: %v", ErrInvalidValue, c.Renderer.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: renderer.timeout must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// PageOptionMap returns the page defaults as a generic option map.
// Empty values are left out.
func (c *Config) PageOptionMap() map[string]string {
	m := map[string]string{}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			m[key] = value
		}
	}
	set(pdfbridge.KeyPageSize, c.Page.Size)
	set(pdfbridge.KeyOrientation, c.Page.Orientation)
	set(pdfbridge.KeyMarginTop, c.Page.MarginTop)
	set(pdfbridge.KeyMarginRight, c.Page.MarginRight)
	set(pdfbridge.KeyMarginBottom, c.Page.MarginBottom)
	set(pdfbridge.KeyMarginLeft, c.Page.MarginLeft)
	set(pdfbridge.KeyPageRanges, c.Page.PageRanges)
	set(pdfbridge.KeyScale, c.Page.Scale)
	if c.Page.PrintBackground {
		m[pdfbridge.KeyPrintBackground] = "true"
	}
	return m
}

// PageOptions parses the page defaults.
func (c *Config) PageOptions() (pdfbridge.PageOptions, error) {
	return pdfbridge.ParseOptions(c.PageOptionMap())
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is a path; anything else is a name
// searched as <name>.yaml / <name>.yml in the current directory, then in
// <user config dir>/go-pdfbridge. Missing files are an error.
// Fields absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	exts := []string{".yaml", ".yml"}
	paths := make([]string, 0, 2*len(exts))
	for _, ext := range exts {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range exts {
			paths = append(paths, filepath.Join(dir, SearchDir, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
