package serve

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/tweedjs/docs/internal/config"
	"github.com/tweedjs/docs/internal/metrics"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	out := t.TempDir()
	cfg := &config.Config{
		Source: config.SourceConfig{Directory: t.TempDir()},
		Output: config.OutputConfig{Directory: out},
		Serve:  config.ServeConfig{Addr: ":0"},
	}
	reg := prom.NewRegistry()
	metrics.NewRecorder(reg).IncDocuments("built", 1)
	return New(cfg, reg, func(ctx context.Context) error { return nil }), out
}

func TestHandler_ServesFragments(t *testing.T) {
	s, out := testServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(out, "manifest.json"), []byte(`{"title":"Tweed"}`), 0o600))

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/manifest.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_Health(t *testing.T) {
	s, _ := testServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestHandler_MetricsExposesCompilerSeries(t *testing.T) {
	s, _ := testServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "docs_documents_total")
}

func TestRun_InitialBuildFailure_Surfaces(t *testing.T) {
	cfg := &config.Config{
		Source: config.SourceConfig{Directory: t.TempDir()},
		Output: config.OutputConfig{Directory: t.TempDir()},
		Serve:  config.ServeConfig{Addr: "127.0.0.1:0"},
	}
	s := New(cfg, nil, func(ctx context.Context) error { return os.ErrNotExist })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.Error(t, s.Run(ctx))
}
