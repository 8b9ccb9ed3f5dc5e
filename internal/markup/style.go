package markup

import "strings"

// InjectCSS adds css as a <style> block: before </head>, else right after
// <body ...>, else at the start of the document.
func InjectCSS(doc, css string) string {
	if strings.TrimSpace(css) == "" {
		return doc
	}

	// "</" would close the style element early
	block := "<style>" + strings.ReplaceAll(css, "</", `<\/`) + "</style>"
	lower := strings.ToLower(doc)

	if i := strings.Index(lower, "</head>"); i >= 0 {
		return doc[:i] + block + doc[i:]
	}
	if i := strings.Index(lower, "<body"); i >= 0 {
		if end := strings.IndexByte(doc[i:], '>'); end >= 0 {
			at := i + end + 1
			return doc[:at] + block + doc[at:]
		}
	}
	return block + doc
}
