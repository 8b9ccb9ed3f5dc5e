package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolver loads styles from a user directory first and falls back to the
// built-ins when the style is not there.
type Resolver struct {
	custom   StyleLoader // nil without a directory
	embedded StyleLoader
}

var _ StyleLoader = (*Resolver)(nil)

// NewResolver returns a Resolver. An empty dir means built-ins only.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{embedded: EmbeddedLoader{}}
	if dir == "" {
		return r, nil
	}
	fsLoader, err := NewFilesystemLoader(dir)
	if err != nil {
		return nil, err
	}
	r.custom = fsLoader
	return r, nil
}

// LoadStyle returns the named style. Only "not found" falls back; read and
// validation errors from the user directory are returned as-is.
func (r *Resolver) LoadStyle(name string) (string, error) {
	if r.custom != nil {
		css, err := r.custom.LoadStyle(name)
		if err == nil || !errors.Is(err, ErrStyleNotFound) {
			return css, err
		}
	}
	return r.embedded.LoadStyle(name)
}

// Resolve turns a --style value into CSS. A value ending in .css is read as
// a file, NoStyle yields no CSS, and anything else is a style name.
func (r *Resolver) Resolve(value string) (string, error) {
	switch {
	case value == "":
		value = DefaultStyle
	case value == NoStyle:
		return "", nil
	}

	if strings.EqualFold(filepath.Ext(value), ".css") {
		data, err := os.ReadFile(value) // #nosec G304 -- user-provided stylesheet
		if err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("%w: %s", ErrStyleNotFound, value)
			}
			return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
		return string(data), nil
	}
	return r.LoadStyle(value)
}
