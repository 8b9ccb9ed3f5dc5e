package assets

// Notes:
// - Embedded tests rely on styles/default.css and styles/compact.css.
// - Symlink cases are skipped where the filesystem refuses to create links.

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeCSS(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// ---------------------------------------------------------------------------
// ValidateAssetName
// ---------------------------------------------------------------------------

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "default", false},
		{"dash", "my-style", false},
		{"underscore", "my_style", false},
		{"empty", "", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"dot dot", "..", true},
		{"extension", "default.css", true},
		{"null byte", "a\x00b", true},
		{"space", "my style", true},
		{"unicode", "stylé", true},
		{"too long", strings.Repeat("a", maxNameLength+1), true},
		{"max length", strings.Repeat("a", maxNameLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", tt.input, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// EmbeddedLoader
// ---------------------------------------------------------------------------

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	t.Run("built-in styles load", func(t *testing.T) {
		t.Parallel()

		for _, name := range Builtin() {
			css, err := EmbeddedLoader{}.LoadStyle(name)
			if err != nil {
				t.Fatalf("LoadStyle(%q) error = %v", name, err)
			}
			if !strings.Contains(css, "@page") {
				t.Errorf("LoadStyle(%q) has no @page rule", name)
			}
		}
	})

	t.Run("unknown style lists built-ins", func(t *testing.T) {
		t.Parallel()

		_, err := EmbeddedLoader{}.LoadStyle("nonexistent-xyz")
		if !errors.Is(err, ErrStyleNotFound) {
			t.Fatalf("LoadStyle() error = %v, want ErrStyleNotFound", err)
		}
		if !strings.Contains(err.Error(), DefaultStyle) {
			t.Errorf("error %q should list built-in styles", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()

		_, err := EmbeddedLoader{}.LoadStyle("../default")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadStyle() error = %v, want ErrInvalidAssetName", err)
		}
	})
}

func TestBuiltin(t *testing.T) {
	t.Parallel()

	got := Builtin()
	for _, want := range []string{"compact", DefaultStyle} {
		if !slices.Contains(got, want) {
			t.Errorf("Builtin() = %v, missing %q", got, want)
		}
	}
	if !slices.IsSorted(got) {
		t.Errorf("Builtin() = %v, want sorted", got)
	}
	if slices.Contains(got, NoStyle) {
		t.Errorf("Builtin() must not contain %q", NoStyle)
	}
}

// ---------------------------------------------------------------------------
// FilesystemLoader
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFilesystemLoader(t.TempDir()); err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader(\"\") error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()

		path := writeCSS(t, t.TempDir(), "file.css", "body{}")
		_, err := NewFilesystemLoader(path)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCSS(t, dir, "brand.css", "body { color: teal; }")

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	t.Run("existing style", func(t *testing.T) {
		t.Parallel()

		got, err := loader.LoadStyle("brand")
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		if got != "body { color: teal; }" {
			t.Errorf("LoadStyle() = %q", got)
		}
	})

	t.Run("missing style", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadStyle("absent")
		if !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadStyle("../brand")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadStyle() error = %v, want ErrInvalidAssetName", err)
		}
	})
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	target := writeCSS(t, outside, "secret.css", "body{}")

	dir := t.TempDir()
	if err := os.Symlink(target, filepath.Join(dir, "leak.css")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	_, err = loader.LoadStyle("leak")
	if !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle() error = %v, want ErrPathTraversal", err)
	}
}

// ---------------------------------------------------------------------------
// Resolver
// ---------------------------------------------------------------------------

func TestNewResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty dir uses built-ins only", func(t *testing.T) {
		t.Parallel()

		r, err := NewResolver("")
		if err != nil {
			t.Fatalf("NewResolver(\"\") error = %v", err)
		}
		if r.custom != nil {
			t.Error("expected no custom loader for empty dir")
		}
	})

	t.Run("invalid dir", func(t *testing.T) {
		t.Parallel()

		_, err := NewResolver(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestResolver_LoadStyle_Fallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCSS(t, dir, "default.css", "/* override */")
	writeCSS(t, dir, "brand.css", "/* brand */")

	r, err := NewResolver(dir)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	tests := []struct {
		name    string
		style   string
		want    string
		wantErr error
	}{
		{"custom overrides built-in", "default", "/* override */", nil},
		{"custom only", "brand", "/* brand */", nil},
		{"falls back to built-in", "compact", "@page", nil},
		{"missing everywhere", "nonexistent-xyz", "", ErrStyleNotFound},
		{"invalid name not retried", "a/b", "", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.LoadStyle(tt.style)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadStyle(%q) error = %v, want %v", tt.style, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) error = %v", tt.style, err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("LoadStyle(%q) = %q, want substring %q", tt.style, got, tt.want)
			}
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeCSS(t, dir, "print.css", "h1 { color: red; }")

	r, err := NewResolver("")
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	builtin, err := EmbeddedLoader{}.LoadStyle(DefaultStyle)
	if err != nil {
		t.Fatalf("LoadStyle(default) error = %v", err)
	}

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr error
	}{
		{"empty means default", "", builtin, nil},
		{"none disables", NoStyle, "", nil},
		{"named style", DefaultStyle, builtin, nil},
		{"css file", file, "h1 { color: red; }", nil},
		{"missing css file", filepath.Join(dir, "absent.css"), "", ErrStyleNotFound},
		{"unknown name", "nonexistent-xyz", "", ErrStyleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Resolve(tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve(%q) error = %v, want %v", tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
