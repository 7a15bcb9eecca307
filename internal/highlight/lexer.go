package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// tweedKeywords are the keywords of the Tweed dialect: TypeScript keywords
// plus the untyped (plain JavaScript) subset, so one lexer serves both
// variants of a dual-language example.
var tweedKeywords = []string{
	"abstract", "as", "async", "await", "break", "case", "catch", "class",
	"const", "continue", "declare", "default", "delete", "do", "else", "enum",
	"export", "extends", "finally", "for", "from", "function", "get", "if",
	"implements", "import", "in", "instanceof", "interface", "let", "namespace",
	"new", "of", "private", "protected", "public", "readonly", "return", "set",
	"static", "super", "switch", "this", "throw", "try", "type", "typeof",
	"var", "void", "while", "yield",
}

// tweedBuiltins are framework class names that get class-name highlighting
// even outside declaration position.
var tweedBuiltins = []string{
	"Engine", "Node", "VirtualNode", "Component", "Router", "RoutesBuilder",
	"SharedState", "Promise",
}

var tweedTypes = []string{
	"any", "bigint", "boolean", "never", "number", "object", "string",
	"symbol", "undefined", "unknown",
}

// Tweed is a grammar extension over plain TypeScript highlighting: it adds
// decorator/annotation rules (`@mutating`), framework class names, and the
// combined JS/TS keyword set. Registered so chroma can resolve it by alias.
var Tweed = lexers.Register(chroma.MustNewLexer(
	&chroma.Config{
		Name:      "Tweed",
		Aliases:   []string{"tweed-ts", "tweed-js"},
		Filenames: []string{"*.tweed"},
		MimeTypes: []string{"text/x-tweed"},
	},
	tweedRules,
))

func tweedRules() chroma.Rules {
	return chroma.Rules{
		"root": {
			{Pattern: `\s+`, Type: chroma.Text},
			{Pattern: `//[^\n]*`, Type: chroma.CommentSingle},
			{Pattern: `/\*`, Type: chroma.CommentMultiline, Mutator: chroma.Push("comment")},
			{Pattern: `@[a-zA-Z_]\w*`, Type: chroma.NameDecorator},
			{Pattern: `"(\\\\|\\"|[^"\n])*"`, Type: chroma.LiteralStringDouble},
			{Pattern: `'(\\\\|\\'|[^'\n])*'`, Type: chroma.LiteralStringSingle},
			{Pattern: "`", Type: chroma.LiteralStringBacktick, Mutator: chroma.Push("template")},
			{Pattern: `0[xX][0-9a-fA-F]+`, Type: chroma.LiteralNumberHex},
			{Pattern: `\d+\.\d+([eE][-+]?\d+)?`, Type: chroma.LiteralNumberFloat},
			{Pattern: `\d+`, Type: chroma.LiteralNumberInteger},
			{Pattern: chroma.Words(``, `\b`, `true`, `false`, `null`, `NaN`, `Infinity`), Type: chroma.KeywordConstant},
			{Pattern: chroma.Words(``, `\b`, tweedTypes...), Type: chroma.KeywordType},
			{Pattern: chroma.Words(``, `\b`, tweedKeywords...), Type: chroma.Keyword},
			{Pattern: chroma.Words(``, `\b`, tweedBuiltins...), Type: chroma.NameClass},
			{Pattern: `[A-Z][\w$]*`, Type: chroma.NameClass},
			{Pattern: `[a-zA-Z_$][\w$]*(?=\s*\()`, Type: chroma.NameFunction},
			{Pattern: `[a-zA-Z_$][\w$]*`, Type: chroma.Name},
			{Pattern: `=>|\.\.\.|[-+*/%&|^!=<>?]=?|~`, Type: chroma.Operator},
			{Pattern: `[{}()\[\];:,.]`, Type: chroma.Punctuation},
		},
		"comment": {
			{Pattern: `[^*/]+`, Type: chroma.CommentMultiline},
			{Pattern: `/\*`, Type: chroma.CommentMultiline, Mutator: chroma.Push()},
			{Pattern: `\*/`, Type: chroma.CommentMultiline, Mutator: chroma.Pop(1)},
			{Pattern: `[*/]`, Type: chroma.CommentMultiline},
		},
		"template": {
			{Pattern: "`", Type: chroma.LiteralStringBacktick, Mutator: chroma.Pop(1)},
			{Pattern: `\$\{`, Type: chroma.LiteralStringInterpol, Mutator: chroma.Push("interpolation")},
			{Pattern: `[^$\x60]+`, Type: chroma.LiteralStringBacktick},
			{Pattern: `\$`, Type: chroma.LiteralStringBacktick},
		},
		"interpolation": {
			{Pattern: `\}`, Type: chroma.LiteralStringInterpol, Mutator: chroma.Pop(1)},
			{Pattern: `[^}]+`, Type: chroma.LiteralStringInterpol},
		},
	}
}
