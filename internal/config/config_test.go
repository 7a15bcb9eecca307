package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "site:\n  title: Tweed\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Tweed", cfg.Site.Title)
	require.Equal(t, "./content", cfg.Source.Directory)
	require.Equal(t, "./dist", cfg.Output.Directory)
	require.Equal(t, ":4200", cfg.Serve.Addr)
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestLoad_MalformedYAML_ReturnsError(t *testing.T) {
	path := writeConfig(t, "site: [broken\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("DOCS_BASE_URL", "https://tweedjs.github.io")
	path := writeConfig(t, "site:\n  title: Tweed\n  base_url: ${DOCS_BASE_URL}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://tweedjs.github.io", cfg.Site.BaseURL)
}

func TestLoad_ParsesRebuildInterval(t *testing.T) {
	path := writeConfig(t, "serve:\n  rebuild_interval: 5m\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, time.Duration(cfg.Serve.RebuildInterval))
}

func TestLoad_InvalidRebuildInterval_ReturnsError(t *testing.T) {
	path := writeConfig(t, "serve:\n  rebuild_interval: sometimes\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestHash_ChangesWithContent(t *testing.T) {
	a := &Config{Site: SiteConfig{Title: "A"}}
	b := &Config{Site: SiteConfig{Title: "B"}}

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	require.NotEqual(t, ha, hb)

	ha2, err := a.Hash()
	require.NoError(t, err)
	require.Equal(t, ha, ha2)
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Tweed", cfg.Site.Title)
}
