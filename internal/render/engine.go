// Package render converts Markdown document bodies to HTML.
//
// Rendering is goldmark-based with two site-specific behaviors layered on:
// fenced code blocks are syntax-highlighted through the highlight package,
// and fences tagged with the dual-language marker are lifted out of the HTML
// into a side-by-side example list, leaving a placeholder element behind.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/tweedjs/docs/internal/highlight"
)

// Example is one dual-language code sample: the same snippet authored in the
// untyped (JavaScript) and typed (TypeScript) dialects, both pre-rendered.
type Example struct {
	Untyped string `json:"untyped"`
	Typed   string `json:"typed"`
}

// Result is the rendered form of one document body.
type Result struct {
	HTML     string
	Summary  string
	Examples []Example
}

// ErrDualVariants indicates a dual-language fence whose content does not
// split into exactly two variants on a literal `---` line.
var ErrDualVariants = errors.New("dual-language fence must contain exactly one --- separator")

// Body renders a Markdown body (header block already removed) to HTML.
//
// Dual-language fences are replaced in the HTML by
// `<div class="code-example" data-example="N"></div>` and surface in
// Result.Examples in document order. Fence languages outside the recognized
// set abort the render.
func Body(body []byte) (*Result, error) {
	cr := &codeRenderer{source: body}
	md := goldmark.New(
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(util.Prioritized(cr, 100)),
		),
	)

	ctx := parser.NewContext(parser.WithIDs(newSlugIDs()))
	doc := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, body, doc); err != nil {
		return nil, err
	}

	html := buf.String()
	return &Result{
		HTML:     html,
		Summary:  Summary(html, defaultSummaryLength),
		Examples: cr.examples,
	}, nil
}

// codeRenderer overrides goldmark's fenced code block rendering. It carries
// per-render state, so a fresh instance is built for every Body call.
type codeRenderer struct {
	source   []byte
	examples []Example
}

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(gmast.KindFencedCodeBlock, r.renderFencedCode)
	reg.Register(gmast.KindCodeBlock, r.renderIndentedCode)
}

func (r *codeRenderer) renderFencedCode(w util.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	n := node.(*gmast.FencedCodeBlock)

	lang := string(n.Language(source))
	if lang == "" {
		lang = "text"
	}
	code := nodeText(n, source)

	if lang == highlight.DualMarker {
		placeholder, err := r.addExample(code)
		if err != nil {
			return gmast.WalkStop, err
		}
		if _, err := w.WriteString(placeholder); err != nil {
			return gmast.WalkStop, err
		}
		return gmast.WalkSkipChildren, nil
	}

	rendered, err := highlight.Snippet(code, lang)
	if err != nil {
		return gmast.WalkStop, err
	}
	if _, err := w.WriteString(rendered); err != nil {
		return gmast.WalkStop, err
	}
	return gmast.WalkSkipChildren, nil
}

// renderIndentedCode treats indented code blocks as plain text snippets.
func (r *codeRenderer) renderIndentedCode(w util.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	rendered, err := highlight.Snippet(nodeText(node, source), "text")
	if err != nil {
		return gmast.WalkStop, err
	}
	if _, err := w.WriteString(rendered); err != nil {
		return gmast.WalkStop, err
	}
	return gmast.WalkSkipChildren, nil
}

// addExample splits a dual-language fence body on its `---` line, renders
// both variants, and returns the placeholder markup for the HTML stream.
func (r *codeRenderer) addExample(code string) (string, error) {
	untyped, typed, err := splitVariants(code)
	if err != nil {
		return "", err
	}

	untypedHTML, err := highlight.Snippet(untyped, "js")
	if err != nil {
		return "", fmt.Errorf("untyped variant: %w", err)
	}
	typedHTML, err := highlight.Snippet(typed, "ts")
	if err != nil {
		return "", fmt.Errorf("typed variant: %w", err)
	}

	index := len(r.examples)
	r.examples = append(r.examples, Example{Untyped: untypedHTML, Typed: typedHTML})
	return fmt.Sprintf("<div class=\"code-example\" data-example=\"%d\"></div>\n", index), nil
}

// splitVariants splits on a line that is exactly `---`. Exactly one separator
// is required: two variants, untyped first.
func splitVariants(code string) (untyped, typed string, err error) {
	lines := strings.Split(code, "\n")
	separator := -1
	for i, line := range lines {
		if strings.TrimRight(line, "\r") == "---" {
			if separator >= 0 {
				return "", "", ErrDualVariants
			}
			separator = i
		}
	}
	if separator < 0 {
		return "", "", ErrDualVariants
	}

	untyped = strings.TrimSpace(strings.Join(lines[:separator], "\n")) + "\n"
	typed = strings.TrimSpace(strings.Join(lines[separator+1:], "\n")) + "\n"
	if untyped == "\n" || typed == "\n" {
		return "", "", ErrDualVariants
	}
	return untyped, typed, nil
}

func nodeText(node gmast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(source))
	}
	return buf.String()
}
