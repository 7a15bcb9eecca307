// Package highlight renders source snippets to HTML with syntax highlighting.
//
// It layers a Tweed-specific grammar on top of chroma's stock lexers and
// enforces the recognized fence-language set: documents must not reference
// languages the site cannot highlight.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DualMarker tags a fenced block containing a dual-language example.
const DualMarker = "tweed"

// UnknownLanguageError reports a fence language outside the recognized set.
type UnknownLanguageError struct {
	Language string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("unknown fence language %q", e.Language)
}

// languageLexers maps recognized fence languages to chroma lexer names.
// The Tweed dialect variants use the custom lexer; the rest resolve to stock
// chroma grammars.
var languageLexers = map[string]string{
	"javascript": "tweed-js",
	"js":         "tweed-js",
	"typescript": "tweed-ts",
	"ts":         "tweed-ts",
	"jsx":        "tweed-js",
	"html":       "html",
	"css":        "css",
	"json":       "json",
	"yaml":       "yaml",
	"bash":       "bash",
	"shell":      "bash",
	"sh":         "bash",
	"text":       "",
	"plain":      "",
}

// Recognized reports whether lang may appear as a fence language tag.
// The dual-language marker counts as recognized; callers handle it before
// asking for a plain highlight.
func Recognized(lang string) bool {
	if lang == DualMarker {
		return true
	}
	_, ok := languageLexers[lang]
	return ok
}

// Snippet renders source as a highlighted HTML <pre> block using CSS classes
// (no inline styles); the site stylesheet supplies the palette.
func Snippet(source, lang string) (string, error) {
	name, ok := languageLexers[lang]
	if !ok {
		return "", &UnknownLanguageError{Language: lang}
	}

	var lexer chroma.Lexer
	if name == "" {
		lexer = lexers.Fallback
	} else if lexer = lexers.Get(name); lexer == nil {
		return "", fmt.Errorf("no lexer registered for %q", name)
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("tokenise %s snippet: %w", lang, err)
	}

	formatter := html.New(html.WithClasses(true))
	var buf strings.Builder
	if err := formatter.Format(&buf, styles.Get("github"), iterator); err != nil {
		return "", fmt.Errorf("format %s snippet: %w", lang, err)
	}
	return buf.String(), nil
}
