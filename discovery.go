package pdfbridge

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alnah/go-pdfbridge/internal/fileutil"
	"github.com/alnah/go-pdfbridge/internal/hints"
)

// DefaultEntrypoint is the renderer entry point file name looked up next to
// the running executable and under the deployment root.
var DefaultEntrypoint = defaultEntrypoint()

func defaultEntrypoint() string {
	if runtime.GOOS == "windows" {
		return "pdfbridge-render.exe"
	}
	return "pdfbridge-render"
}

// Locator finds the renderer entry point. Locations are tried in order:
// the bundled location (BundledPath, or the entry point next to the running
// executable), then DeploymentRoot. The first existing file wins.
type Locator struct {
	BundledPath    string // explicit bundled entry point; "" = next to the executable
	DeploymentRoot string // fallback directory; "" = no fallback
	Entrypoint     string // entry point file name; "" = DefaultEntrypoint
}

// Candidates lists the locations Locate checks, in order.
func (l Locator) Candidates() []string {
	entry := l.Entrypoint
	if entry == "" {
		entry = DefaultEntrypoint
	}

	var out []string
	if l.BundledPath != "" {
		out = append(out, l.BundledPath)
	} else if exe, err := os.Executable(); err == nil {
		out = append(out, filepath.Join(filepath.Dir(exe), entry))
	}
	if l.DeploymentRoot != "" {
		out = append(out, filepath.Join(l.DeploymentRoot, entry))
	}
	return out
}

// Locate returns the first candidate that exists, or a RendererNotInstalled
// error naming every location tried.
func (l Locator) Locate() (string, error) {
	candidates := l.Candidates()
	for _, path := range candidates {
		if fileutil.FileExists(path) {
			return path, nil
		}
	}

	entry := l.Entrypoint
	if entry == "" {
		entry = DefaultEntrypoint
	}
	msg := fmt.Sprintf("renderer %s not found (tried: %s)", entry, strings.Join(candidates, ", "))
	if len(candidates) == 0 {
		msg = fmt.Sprintf("renderer %s not found (no search location)", entry)
	}
	return "", newError(KindRendererNotInstalled, msg+hints.ForRendererNotInstalled(entry), nil)
}
