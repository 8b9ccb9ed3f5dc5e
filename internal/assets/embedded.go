package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// DefaultStyle is applied to Markdown documents unless another is chosen.
const DefaultStyle = "default"

// NoStyle disables the built-in stylesheet.
const NoStyle = "none"

//go:embed styles/*.css
var styles embed.FS

// StyleLoader loads a stylesheet by name (without the .css extension).
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}

// EmbeddedLoader serves the built-in styles.
type EmbeddedLoader struct{}

var _ StyleLoader = EmbeddedLoader{}

// LoadStyle returns the built-in style called name.
func (EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q (built-in: %s)", ErrStyleNotFound, name, strings.Join(Builtin(), ", "))
	}
	return string(content), nil
}

// Builtin lists the built-in style names in sorted order.
func Builtin() []string {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	sort.Strings(names)
	return names
}
