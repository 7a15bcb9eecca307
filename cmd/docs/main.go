package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/tweedjs/docs/internal/cache"
	"github.com/tweedjs/docs/internal/compiler"
	"github.com/tweedjs/docs/internal/config"
	"github.com/tweedjs/docs/internal/lint"
	"github.com/tweedjs/docs/internal/metrics"
	"github.com/tweedjs/docs/internal/serve"
	"github.com/tweedjs/docs/internal/version"
	"github.com/tweedjs/docs/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"docs.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Force   bool   `short:"f" help:"Rebuild every document, ignoring the signature cache"`
		CacheDB string `help:"Path to the incremental build cache" default:".docs-cache.db"`
	} `cmd:"" help:"Compile the documentation tree to JSON fragments and a manifest"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Check struct {
		Format string `help:"Output format (text or json)" default:"text"`
	} `cmd:"" help:"Validate the documentation tree without writing output"`

	Watch struct {
		CacheDB string `help:"Path to the incremental build cache" default:".docs-cache.db"`
	} `cmd:"" help:"Rebuild automatically when documentation sources change"`

	Serve struct {
		Addr    string `short:"a" help:"Listen address (overrides config)"`
		CacheDB string `help:"Path to the incremental build cache" default:".docs-cache.db"`
	} `cmd:"" help:"Serve the compiled site with rebuild-on-change and metrics"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "build":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runBuild(cfg, CLI.Build.CacheDB, CLI.Build.Force); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration created", "path", CLI.Config)
	case "check":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runCheck(cfg, CLI.Check.Format); err != nil {
			slog.Error("Check failed", "error", err)
			os.Exit(1)
		}
	case "watch":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runWatch(cfg, CLI.Watch.CacheDB); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	case "serve":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if CLI.Serve.Addr != "" {
			cfg.Serve.Addr = CLI.Serve.Addr
		}
		if err := runServe(cfg, CLI.Serve.CacheDB); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("docs %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	}
}

func runBuild(cfg *config.Config, cacheDB string, force bool) error {
	slog.Info("Starting documentation build",
		"source", cfg.Source.Directory,
		"output", cfg.Output.Directory,
		"force", force)

	sigCache, err := cache.Open(cacheDB)
	if err != nil {
		return err
	}
	defer func() {
		if err := sigCache.Close(); err != nil {
			slog.Warn("Failed to close cache", "error", err)
		}
	}()

	report, err := compiler.New(cfg, compiler.Options{
		Cache: sigCache,
		Force: force,
	}).Run(context.Background())
	if err != nil {
		return err
	}

	slog.Info("Documentation build finished",
		"build_id", report.BuildID,
		"documents", report.Documents,
		"built", report.Built,
		"skipped", report.Skipped,
		"duration", report.Duration)
	return nil
}

func runCheck(cfg *config.Config, format string) error {
	result, err := lint.Run(cfg.Source.Directory)
	if err != nil {
		return err
	}

	formatter, err := lint.NewFormatter(format, true)
	if err != nil {
		return err
	}
	if err := formatter.Format(os.Stdout, result, cfg.Source.Directory); err != nil {
		return err
	}

	if result.ErrorCount() > 0 {
		return fmt.Errorf("%d error(s) found", result.ErrorCount())
	}
	return nil
}

func runWatch(cfg *config.Config, cacheDB string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sigCache, err := cache.Open(cacheDB)
	if err != nil {
		return err
	}
	defer sigCache.Close()

	comp := compiler.New(cfg, compiler.Options{Cache: sigCache})
	if _, err := comp.Run(ctx); err != nil {
		return err
	}

	watcher, err := watch.New(cfg.Source.Directory, watch.DebounceConfig{}, func() {
		slog.Info("Source changed, rebuilding")
		if _, err := comp.Run(ctx); err != nil {
			slog.Error("Rebuild failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	slog.Info("Watching for changes", "source", cfg.Source.Directory)
	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func runServe(cfg *config.Config, cacheDB string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sigCache, err := cache.Open(cacheDB)
	if err != nil {
		return err
	}
	defer sigCache.Close()

	registry := prom.NewRegistry()
	recorder := metrics.NewRecorder(registry)
	comp := compiler.New(cfg, compiler.Options{Cache: sigCache, Metrics: recorder})

	server := serve.New(cfg, registry, func(ctx context.Context) error {
		_, err := comp.Run(ctx)
		return err
	})

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	slog.Info("Preview server stopped")
	return nil
}
