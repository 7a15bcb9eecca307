package render

import (
	"fmt"
	"strings"
	"unicode"

	gmast "github.com/yuin/goldmark/ast"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns a heading title into a stable URL anchor: accents folded via
// NFD decomposition, lowercased, runs of non-alphanumerics collapsed to `-`.
func Slugify(title string) string {
	decomposed := norm.NFD.String(title)

	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from decomposition
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// slugIDs generates heading anchor ids for goldmark, deduplicating repeats
// within one document.
type slugIDs struct {
	used map[string]bool
}

func newSlugIDs() *slugIDs {
	return &slugIDs{used: map[string]bool{}}
}

func (s *slugIDs) Generate(value []byte, kind gmast.NodeKind) []byte {
	slug := Slugify(string(value))
	if slug == "" {
		slug = "section"
	}
	candidate := slug
	for i := 1; s.used[candidate]; i++ {
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
	s.used[candidate] = true
	return []byte(candidate)
}

func (s *slugIDs) Put(value []byte) {
	s.used[string(value)] = true
}
