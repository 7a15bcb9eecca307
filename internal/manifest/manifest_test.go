package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sample() *Manifest {
	m := New("Tweed", "A tiny framework", "https://tweedjs.github.io")
	m.Sections = []Section{
		{ID: "z-section", Title: "Z", Documents: []Document{
			{ID: "b-doc", Title: "B", URL: "/z-section/b-doc"},
			{ID: "a-doc", Title: "A", URL: "/z-section/a-doc"},
		}},
		{ID: "a-section", Title: "A", Documents: []Document{
			{ID: "only", Title: "Only", URL: "/a-section/only"},
		}},
	}
	return m
}

func TestNew_AssignsBuildID(t *testing.T) {
	a := New("T", "", "")
	b := New("T", "", "")
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.False(t, a.GeneratedAt.IsZero())
}

func TestRoundTrip_PreservesDeclarationOrder(t *testing.T) {
	m := sample()

	data, err := m.ToJSON()
	require.NoError(t, err)

	got, err := FromJSON(data)
	require.NoError(t, err)

	// Insertion order survives serialization; nothing gets sorted.
	require.Equal(t, "z-section", got.Sections[0].ID)
	require.Equal(t, "a-section", got.Sections[1].ID)
	require.Equal(t, "b-doc", got.Sections[0].Documents[0].ID)
	require.Equal(t, "a-doc", got.Sections[0].Documents[1].ID)
}

func TestComputeHash_StableAcrossBuildIDs(t *testing.T) {
	a := sample()
	b := sample()
	require.NotEqual(t, a.ID, b.ID)

	require.NoError(t, a.ComputeHash())
	require.NoError(t, b.ComputeHash())
	require.Equal(t, a.Hash, b.Hash)
}

func TestComputeHash_ChangesWithNavigation(t *testing.T) {
	a := sample()
	require.NoError(t, a.ComputeHash())

	b := sample()
	b.Sections[0].Documents[0].Title = "Renamed"
	require.NoError(t, b.ComputeHash())

	require.NotEqual(t, a.Hash, b.Hash)
}

func TestFromJSON_Malformed_ReturnsError(t *testing.T) {
	_, err := FromJSON([]byte("{not json"))
	require.Error(t, err)
}
