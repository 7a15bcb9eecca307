package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tweedjs/docs/internal/highlight"
)

func TestBody_NoFences_EmptyExamples(t *testing.T) {
	result, err := Body([]byte("# Hello\n\nSome prose.\n"))
	require.NoError(t, err)
	require.Len(t, result.Examples, 0)
	require.Contains(t, result.HTML, "<h1")
	require.Contains(t, result.HTML, "Some prose.")
}

func TestBody_DualFence_SplitsIntoTwoVariants(t *testing.T) {
	body := []byte("Intro.\n\n```tweed\nconst engine = new Engine(new Counter())\n---\nconst engine: Engine = new Engine(new Counter())\n```\n\nOutro.\n")

	result, err := Body(body)
	require.NoError(t, err)
	require.Len(t, result.Examples, 1)

	example := result.Examples[0]
	require.Contains(t, example.Untyped, "const")
	require.Contains(t, example.Typed, "Engine")
	require.NotEqual(t, example.Untyped, example.Typed)

	// The fence must not appear verbatim; a placeholder stands in for it.
	require.NotContains(t, result.HTML, "---")
	require.NotContains(t, result.HTML, "new Engine(new Counter())")
	require.Contains(t, result.HTML, `<div class="code-example" data-example="0"></div>`)
}

func TestBody_MultipleDualFences_NumberedInOrder(t *testing.T) {
	body := []byte("```tweed\na\n---\nb\n```\n\ntext\n\n```tweed\nc\n---\nd\n```\n")

	result, err := Body(body)
	require.NoError(t, err)
	require.Len(t, result.Examples, 2)
	require.Contains(t, result.HTML, `data-example="0"`)
	require.Contains(t, result.HTML, `data-example="1"`)
}

func TestBody_DualFenceWithoutSeparator_ReturnsError(t *testing.T) {
	body := []byte("```tweed\nonly one variant\n```\n")

	_, err := Body(body)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDualVariants))
}

func TestBody_DualFenceWithTwoSeparators_ReturnsError(t *testing.T) {
	body := []byte("```tweed\na\n---\nb\n---\nc\n```\n")

	_, err := Body(body)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDualVariants))
}

func TestBody_RecognizedFence_Highlighted(t *testing.T) {
	body := []byte("```bash\nnpm install tweed\n```\n")

	result, err := Body(body)
	require.NoError(t, err)
	require.Contains(t, result.HTML, "<pre")
	require.Contains(t, result.HTML, "npm install tweed")
}

func TestBody_UnknownFenceLanguage_ReturnsError(t *testing.T) {
	body := []byte("```brainfuck\n++++\n```\n")

	_, err := Body(body)
	require.Error(t, err)

	var unknown *highlight.UnknownLanguageError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "brainfuck", unknown.Language)
}

func TestBody_UntaggedFence_TreatedAsText(t *testing.T) {
	body := []byte("```\nplain block\n```\n")

	result, err := Body(body)
	require.NoError(t, err)
	require.Contains(t, result.HTML, "plain block")
}

func TestBody_HeadingsGetSlugAnchors(t *testing.T) {
	body := []byte("# Getting Started\n\n## The Engine & You\n")

	result, err := Body(body)
	require.NoError(t, err)
	require.Contains(t, result.HTML, `id="getting-started"`)
	require.Contains(t, result.HTML, `id="the-engine-you"`)
}

func TestBody_SummaryFromFirstParagraph(t *testing.T) {
	body := []byte("# Title\n\nTweed is a tiny frontend framework.\n\nSecond paragraph.\n")

	result, err := Body(body)
	require.NoError(t, err)
	require.Equal(t, "Tweed is a tiny frontend framework.", result.Summary)
}
