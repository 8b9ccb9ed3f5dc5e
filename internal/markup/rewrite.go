package markup

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rewritten lists the element/attribute pairs whose relative references are
// resolved. Media and scripts are left alone.
var rewritten = map[atom.Atom]string{
	atom.Img:  "src",
	atom.A:    "href",
	atom.Link: "href",
}

// ResolveAssets rewrites relative img/a/link references in doc to file://
// URLs under baseDir. References that escape baseDir, URLs, anchors and
// absolute paths are kept as written. An empty baseDir is a no-op.
func ResolveAssets(doc, baseDir string) (string, error) {
	if baseDir == "" {
		return doc, nil
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	root, fragment, err := parse(doc)
	if err != nil {
		return "", err
	}
	walk(root, func(n *html.Node) {
		attr, ok := rewritten[n.DataAtom]
		if !ok {
			return
		}
		for i := range n.Attr {
			if n.Attr[i].Key != attr {
				continue
			}
			if resolved, ok := resolve(n.Attr[i].Val, base); ok {
				n.Attr[i].Val = resolved
			}
		}
	})
	return render(root, fragment)
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// resolve returns the file:// URL for ref, or false when ref is not a
// relative path inside base. Query and fragment are kept on the result.
func resolve(ref, base string) (string, bool) {
	if !isRelative(ref) {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" {
		return "", false
	}
	abs := filepath.Join(base, filepath.FromSlash(u.Path))
	if !within(abs, base) {
		return "", false
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // C:/x -> /C:/x
	}
	out := url.URL{Scheme: "file", Path: p, RawQuery: u.RawQuery, Fragment: u.Fragment}
	return out.String(), true
}

func isRelative(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return false
	}
	return !filepath.IsAbs(ref)
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// parse reads a full document or a fragment; fragments are rendered back
// without the <html><body> wrapper.
func parse(doc string) (*html.Node, bool, error) {
	head := strings.ToLower(strings.TrimSpace(doc))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		root, err := html.Parse(strings.NewReader(doc))
		return root, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(doc), body)
	if err != nil {
		return nil, true, err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, true, nil
}

func render(root *html.Node, fragment bool) (string, error) {
	var b strings.Builder
	if !fragment {
		err := html.Render(&b, root)
		return b.String(), err
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
