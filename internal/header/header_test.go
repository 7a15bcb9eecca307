package header

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoHeader_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	hdr, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, hdr.Keys)
	require.Equal(t, input, body)
}

func TestSplit_HeaderBlock_StrippedFromBody(t *testing.T) {
	input := []byte("title: Installation\ndescription: Getting Tweed\n\n# Installation\n")

	hdr, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "Installation", hdr.Title())
	require.Equal(t, "Getting Tweed", hdr.Get("description"))
	require.Equal(t, []byte("# Installation\n"), body)
	require.NotContains(t, string(body), "title:")
}

func TestSplit_ValueWithColon_SplitsOnFirstColon(t *testing.T) {
	input := []byte("canonical: https://tweedjs.github.io/installation\n\nBody\n")

	hdr, _, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "https://tweedjs.github.io/installation", hdr.Get("canonical"))
}

func TestSplit_MalformedLineInsideBlock_ReturnsError(t *testing.T) {
	input := []byte("title: Installation\nnot a field line\n\nBody\n")

	_, _, _, _, err := Split(input)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMalformedLine))
}

func TestSplit_KeyOrderPreserved(t *testing.T) {
	input := []byte("zeta: 1\nalpha: 2\nmiddle: 3\n\nBody\n")

	hdr, _, _, _, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, []string{"zeta", "alpha", "middle"}, hdr.Keys)
}

func TestSplit_CRLF_SplitsHeaderAndBody(t *testing.T) {
	input := []byte("title: Hello\r\n\r\n# Hello\r\n")

	hdr, body, had, style, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "Hello", hdr.Title())
	require.Equal(t, "\r\n", style.Newline)
	require.Equal(t, []byte("# Hello\r\n"), body)
}

func TestSplit_HeaderOnlyFile_EmptyBody(t *testing.T) {
	input := []byte("title: Stub\n")

	hdr, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "Stub", hdr.Title())
	require.Empty(t, body)
}

func TestJoin_RoundTrip_ReconstructsDocument(t *testing.T) {
	input := []byte("title: Installation\ndescription: Getting Tweed\n\n# Installation\n")

	hdr, body, had, style, err := Split(input)
	require.NoError(t, err)

	out := Join(hdr, body, had, style)
	require.Equal(t, input, out)
}

func TestJoin_NoHeader_ReturnsBody(t *testing.T) {
	body := []byte("# Title\n")
	out := Join(Header{}, body, false, Style{Newline: "\n"})
	require.Equal(t, body, out)
}
