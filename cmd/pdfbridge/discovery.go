package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// stdoutTarget is the -o value that streams the PDF to stdout.
const stdoutTarget = "-"

// fileToRender represents a single input to process.
type fileToRender struct {
	InputPath  string
	OutputPath string // stdoutTarget for stdout
}

var (
	htmlExts     = map[string]bool{".html": true, ".htm": true}
	markdownExts = map[string]bool{".md": true, ".markdown": true}
)

func isMarkdown(path string) bool {
	return markdownExts[strings.ToLower(filepath.Ext(path))]
}

func isSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return htmlExts[ext] || markdownExts[ext]
}

// discoverInputs expands the positional arguments into files to render.
// Directories are walked for supported extensions; explicit files must
// have one.
func discoverInputs(inputs []string, output string) ([]fileToRender, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	var files []fileToRender
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", in, err)
		}

		if !info.IsDir() {
			if !isSupported(in) {
				return nil, fmt.Errorf("%w: got %q", ErrUnsupportedInput, filepath.Ext(in))
			}
			files = append(files, fileToRender{InputPath: in, OutputPath: resolveOutputPath(in, output, "")})
			continue
		}

		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || !isSupported(path) {
				return nil
			}
			files = append(files, fileToRender{InputPath: path, OutputPath: resolveOutputPath(path, output, in)})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no .html or .md files in %s", ErrNoInput, strings.Join(inputs, ", "))
	}
	if len(files) > 1 && isSingleTarget(output) {
		return nil, fmt.Errorf("%w: -o %s needs exactly one input, got %d", ErrUsage, output, len(files))
	}
	return files, nil
}

// isSingleTarget reports whether output names one file rather than a directory.
func isSingleTarget(output string) bool {
	return output == stdoutTarget || strings.EqualFold(filepath.Ext(output), ".pdf")
}

// resolveOutputPath determines the PDF path for an input.
// baseInputDir keeps the directory layout when walking a directory.
func resolveOutputPath(inputPath, output, baseInputDir string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	switch {
	case output == "":
		return filepath.Join(filepath.Dir(inputPath), base+".pdf")
	case isSingleTarget(output):
		return output
	}

	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(output, filepath.Dir(rel), base+".pdf")
		}
	}
	return filepath.Join(output, base+".pdf")
}
