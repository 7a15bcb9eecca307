// Package serve hosts the compiled site locally: static JSON fragments,
// health and metrics endpoints, and rebuild-on-change.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tweedjs/docs/internal/config"
	"github.com/tweedjs/docs/internal/watch"
)

// BuildFunc performs one full site build.
type BuildFunc func(ctx context.Context) error

// Server is the preview server.
type Server struct {
	cfg      *config.Config
	registry *prom.Registry
	build    BuildFunc
}

// New creates a preview server. registry carries the compiler's metrics and
// backs the /metrics endpoint.
func New(cfg *config.Config, registry *prom.Registry, build BuildFunc) *Server {
	if registry == nil {
		registry = prom.NewRegistry()
	}
	return &Server{cfg: cfg, registry: registry, build: build}
}

// Run serves until ctx is cancelled. It performs an initial build, then
// rebuilds on source changes and, when configured, on a fixed schedule.
func (s *Server) Run(ctx context.Context) error {
	if err := s.build(ctx); err != nil {
		return err
	}

	watcher, err := watch.New(s.cfg.Source.Directory, watch.DebounceConfig{}, func() {
		slog.Info("Source changed, rebuilding")
		if err := s.build(ctx); err != nil {
			slog.Error("Rebuild failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Watcher stopped", "error", err)
		}
	}()

	if s.cfg.Serve.RebuildInterval > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(time.Duration(s.cfg.Serve.RebuildInterval)),
			gocron.NewTask(func() {
				slog.Info("Scheduled rebuild")
				if err := s.build(ctx); err != nil {
					slog.Error("Scheduled rebuild failed", "error", err)
				}
			}),
		)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Warn("Scheduler shutdown failed", "error", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              s.cfg.Serve.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening", "addr", s.cfg.Serve.Addr, "dir", s.cfg.Output.Directory)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.Output.Directory)))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
