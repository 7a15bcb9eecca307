package render

import (
	"strings"

	xhtml "golang.org/x/net/html"
)

const defaultSummaryLength = 200

// Summary extracts a plain-text preview from rendered HTML: the text of the
// first paragraph, truncated at a word boundary. Headings and code blocks
// are skipped so the preview reads like prose.
func Summary(renderedHTML string, maxLen int) string {
	tokenizer := xhtml.NewTokenizer(strings.NewReader(renderedHTML))

	var b strings.Builder
	depth := 0   // nesting depth inside the first <p>
	skip := 0    // nesting depth inside pre/code
	found := false

	for {
		tt := tokenizer.Next()
		switch tt {
		case xhtml.ErrorToken:
			return clip(b.String(), maxLen)
		case xhtml.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "pre", "code":
				skip++
			case "p":
				if skip == 0 {
					depth++
					found = true
				}
			}
		case xhtml.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "pre", "code":
				if skip > 0 {
					skip--
				}
			case "p":
				if depth > 0 {
					depth--
					if depth == 0 && found {
						return clip(b.String(), maxLen)
					}
				}
			}
		case xhtml.TextToken:
			if depth > 0 && skip == 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}

func clip(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxLen {
		return s
	}
	cut := strings.LastIndex(s[:maxLen], " ")
	if cut <= 0 {
		cut = maxLen
	}
	return s[:cut] + "…"
}
