package highlight

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnippet_UnknownLanguage_ReturnsError(t *testing.T) {
	_, err := Snippet("whatever", "cobol")
	require.Error(t, err)

	var unknown *UnknownLanguageError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "cobol", unknown.Language)
}

func TestSnippet_TypeScript_HighlightsDecorator(t *testing.T) {
	source := "export default class Counter {\n  @mutating counter: number = 0\n}\n"

	out, err := Snippet(source, "typescript")
	require.NoError(t, err)
	require.Contains(t, out, "<pre")
	require.Contains(t, out, "mutating")
	// Decorator rule from the Tweed grammar extension.
	require.Contains(t, out, `class="nd"`)
}

func TestSnippet_JavaScript_SharesTweedGrammar(t *testing.T) {
	source := "import { Engine } from 'tweed'\n"

	out, err := Snippet(source, "js")
	require.NoError(t, err)
	// Framework class names render as class names, not plain identifiers.
	require.Contains(t, out, "Engine")
	require.Contains(t, out, `class="nc"`)
}

func TestSnippet_UsesCSSClassesNotInlineStyles(t *testing.T) {
	out, err := Snippet("const x = 1\n", "js")
	require.NoError(t, err)
	require.NotContains(t, out, "style=\"color")
}

func TestSnippet_PlainText_PassesThrough(t *testing.T) {
	out, err := Snippet("just words\n", "text")
	require.NoError(t, err)
	require.Contains(t, out, "just words")
}

func TestRecognized(t *testing.T) {
	require.True(t, Recognized("tweed"))
	require.True(t, Recognized("typescript"))
	require.True(t, Recognized("sh"))
	require.False(t, Recognized("ruby"))
	require.False(t, Recognized(""))
}
