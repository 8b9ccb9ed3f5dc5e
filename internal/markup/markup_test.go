package markup

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Markdown
// ---------------------------------------------------------------------------

func TestMarkdownToHTML(t *testing.T) {
	t.Parallel()

	m := NewMarkdown()

	got, err := m.ToHTML(context.Background(), "Q3 <Report>", "# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n<script>x</script>\n")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Q3 &lt;Report&gt;</title>",
		`<h1 id="title">Title</h1>`,
		"<table>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<script>") {
		t.Error("raw HTML passed through unescaped")
	}
}

func TestMarkdownToHTML_DefaultTitle(t *testing.T) {
	t.Parallel()

	got, err := NewMarkdown().ToHTML(context.Background(), "  ", "text")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<title>Document</title>") {
		t.Errorf("missing default title:\n%s", got)
	}
}

func TestMarkdownToHTML_Highlighting(t *testing.T) {
	t.Parallel()

	got, err := NewMarkdown().ToHTML(context.Background(), "", "```go\nfunc main() {}\n```\n")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "style=") {
		t.Errorf("code block not highlighted inline:\n%s", got)
	}
}

func TestMarkdownToHTML_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewMarkdown().ToHTML(ctx, "", "# x"); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// InjectCSS
// ---------------------------------------------------------------------------

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		css  string
		want string
	}{
		{"empty css", "<p>x</p>", "  ", "<p>x</p>"},
		{"before head close", "<html><head></HEAD><body></body></html>", "p{}", "<html><head><style>p{}</style></HEAD><body></body></html>"},
		{"after body open", `<body class="a"><p>x</p></body>`, "p{}", `<body class="a"><style>p{}</style><p>x</p></body>`},
		{"fragment", "<p>x</p>", "p{}", "<style>p{}</style><p>x</p>"},
		{"escapes closing tag", "<p>x</p>", "</style><script>", `<style><\/style><script></style><p>x</p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := InjectCSS(tt.doc, tt.css); got != tt.want {
				t.Errorf("InjectCSS = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// ResolveAssets
// ---------------------------------------------------------------------------

func TestResolveAssets(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	fileURL := func(elem ...string) string {
		p := filepath.ToSlash(filepath.Join(append([]string{base}, elem...)...))
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		return "file://" + p
	}
	logo := fileURL("img", "logo.png")

	tests := []struct {
		name    string
		in      string
		want    string
		wantNot string
	}{
		{"relative image", `<img src="img/logo.png">`, logo, ""},
		{"escaped space", `<img src="my%20image.png">`, fileURL("my") + "%20image.png", "%2520"},
		{"fragment kept", `<a href="other.html#intro">o</a>`, fileURL("other.html") + "#intro", "%23"},
		{"query kept", `<img src="chart.png?v=2">`, fileURL("chart.png") + "?v=2", "%3F"},
		{"query only kept", `<a href="?page=2">n</a>`, `href="?page=2"`, "file://"},
		{"url kept", `<img src="https://x.test/a.png">`, "https://x.test/a.png", "file://"},
		{"data uri kept", `<img src="data:image/png;base64,AA">`, "data:image/png", "file://"},
		{"anchor kept", `<a href="#top">t</a>`, `href="#top"`, "file://"},
		{"mailto kept", `<a href="mailto:a@b.c">m</a>`, "mailto:a@b.c", "file://"},
		{"traversal kept", `<img src="../../etc/passwd">`, "../../etc/passwd", "file://"},
		{"script untouched", `<script src="app.js"></script>`, `src="app.js"`, "file://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveAssets(tt.in, base)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("ResolveAssets = %q, want it to contain %q", got, tt.want)
			}
			if tt.wantNot != "" && strings.Contains(got, tt.wantNot) {
				t.Errorf("ResolveAssets = %q, must not contain %q", got, tt.wantNot)
			}
		})
	}
}

func TestResolveAssets_Document(t *testing.T) {
	t.Parallel()

	doc := `<!DOCTYPE html><html><head><link rel="stylesheet" href="style.css"></head><body><p>x</p></body></html>`
	got, err := ResolveAssets(doc, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "<!DOCTYPE html>") {
		t.Errorf("doctype lost: %q", got)
	}
	if strings.Contains(got, `href="style.css"`) {
		t.Errorf("stylesheet not resolved: %q", got)
	}
}

func TestResolveAssets_FragmentNotWrapped(t *testing.T) {
	t.Parallel()

	got, err := ResolveAssets(`<p>a</p>`, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if got != "<p>a</p>" {
		t.Errorf("fragment = %q, want unchanged", got)
	}
}

func TestResolveAssets_NoBase(t *testing.T) {
	t.Parallel()

	in := `<img src="a.png">`
	got, err := ResolveAssets(in, "")
	if err != nil || got != in {
		t.Errorf("ResolveAssets(no base) = (%q, %v)", got, err)
	}
}
