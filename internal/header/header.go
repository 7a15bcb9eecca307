// Package header parses the leading metadata block of a documentation source
// file.
//
// Unlike YAML frontmatter, the block is not delimited: it consists of
// consecutive `key: value` lines at the very top of the file and ends at the
// first blank line. Everything after the blank line is the Markdown body.
package header

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Style captures formatting details needed for stable rewriting.
//
// It intentionally focuses on newline shape and does not attempt to preserve
// key order beyond what Fields already provides.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Header is the parsed metadata block of a document.
//
// Keys preserves declaration order; Fields provides lookup.
type Header struct {
	Keys   []string
	Fields map[string]string
}

// Get returns the value for key, or "" when absent.
func (h Header) Get(key string) string {
	if h.Fields == nil {
		return ""
	}
	return h.Fields[key]
}

// Title returns the document title declared in the header, if any.
func (h Header) Title() string { return h.Get("title") }

// ErrMalformedLine indicates a non-blank line inside the metadata block that
// does not match the `key: value` shape.
var ErrMalformedLine = errors.New("metadata block line is not in key: value form")

// Split separates the leading metadata block from the Markdown body.
//
// If the first line of content does not look like `key: value`, had is false
// and body is the full input. A malformed line between the first metadata
// line and the terminating blank line is an error, since silently treating it
// as body would leave metadata embedded in the rendered HTML.
func Split(content []byte) (hdr Header, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)
	nl := style.Newline

	if !looksLikeField(firstLine(content, nl)) {
		return Header{}, content, false, style, nil
	}

	hdr = Header{Fields: map[string]string{}}
	rest := content
	for len(rest) > 0 {
		line, tail := cutLine(rest, nl)
		if len(bytes.TrimSpace(line)) == 0 {
			// Blank line terminates the block; body starts after it.
			return hdr, tail, true, style, nil
		}
		key, value, ok := parseField(line)
		if !ok {
			return Header{}, nil, false, style,
				fmt.Errorf("%w: %q", ErrMalformedLine, string(line))
		}
		if _, dup := hdr.Fields[key]; !dup {
			hdr.Keys = append(hdr.Keys, key)
		}
		hdr.Fields[key] = value
		rest = tail
	}

	// Whole file was metadata; the body is empty.
	return hdr, []byte{}, true, style, nil
}

// Join reassembles a document from a header and body.
//
// If had is false, Join returns body as-is.
func Join(hdr Header, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	var buf bytes.Buffer
	for _, key := range hdr.Keys {
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(hdr.Fields[key])
		buf.WriteString(nl)
	}
	buf.WriteString(nl)
	buf.Write(body)
	return buf.Bytes()
}

func firstLine(content []byte, nl string) []byte {
	line, _ := cutLine(content, nl)
	return line
}

func cutLine(content []byte, nl string) (line, rest []byte) {
	idx := bytes.Index(content, []byte(nl))
	if idx < 0 {
		return content, nil
	}
	return content[:idx], content[idx+len(nl):]
}

func looksLikeField(line []byte) bool {
	_, _, ok := parseField(line)
	return ok
}

// parseField splits a `key: value` line on the first colon. Keys are
// lowercase word characters (optionally dash-separated); values may contain
// further colons.
func parseField(line []byte) (key, value string, ok bool) {
	s := string(line)
	idx := strings.Index(s, ":")
	if idx <= 0 {
		return "", "", false
	}
	key = s[:idx]
	for _, r := range key {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' && r != '_' {
			return "", "", false
		}
	}
	value = strings.TrimSpace(s[idx+1:])
	return key, value, true
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			newline = "\n"
			break
		}
	}

	hasTrailingNewline := len(content) > 0 && (content[len(content)-1] == '\n')

	return Style{
		Newline:            newline,
		HasTrailingNewline: hasTrailingNewline,
	}
}
