// Package compiler orchestrates a full documentation build: table of
// contents in, JSON fragments and a manifest out.
package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tweedjs/docs/internal/cache"
	"github.com/tweedjs/docs/internal/config"
	"github.com/tweedjs/docs/internal/gitmeta"
	"github.com/tweedjs/docs/internal/header"
	"github.com/tweedjs/docs/internal/manifest"
	"github.com/tweedjs/docs/internal/metrics"
	"github.com/tweedjs/docs/internal/output"
	"github.com/tweedjs/docs/internal/render"
	"github.com/tweedjs/docs/internal/toc"
)

// Options tune a Compiler beyond its configuration file.
type Options struct {
	// Cache enables incremental builds when non-nil.
	Cache *cache.Cache
	// Metrics receives build observations; nil disables instrumentation.
	Metrics *metrics.Recorder
	// Force rebuilds every document even when its signature is fresh.
	Force bool
}

// Report summarizes one completed build.
type Report struct {
	BuildID      string
	Documents    int
	Built        int
	Skipped      int
	Duration     time.Duration
	ManifestPath string
	ManifestHash string
}

// Compiler builds the site described by one configuration.
type Compiler struct {
	cfg  *config.Config
	opts Options
}

// New creates a compiler for cfg.
func New(cfg *config.Config, opts Options) *Compiler {
	return &Compiler{cfg: cfg, opts: opts}
}

// Run executes a full build.
//
// Document order in the manifest is exactly the declaration order of the
// table of contents. The first document error aborts the build; partial
// fragments already written atomically are safe to leave behind.
func (c *Compiler) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report, err := c.run(ctx)
	elapsed := time.Since(start)

	c.opts.Metrics.ObserveBuildDuration(elapsed)
	if err != nil {
		c.opts.Metrics.IncBuildOutcome(metrics.ResultFailure)
		return nil, err
	}
	c.opts.Metrics.IncBuildOutcome(metrics.ResultSuccess)
	report.Duration = elapsed
	return report, nil
}

func (c *Compiler) run(ctx context.Context) (*Report, error) {
	configHash, err := c.cfg.Hash()
	if err != nil {
		return nil, err
	}

	tocStart := time.Now()
	contents, err := toc.Load(c.cfg.Source.Directory)
	if err != nil {
		return nil, err
	}
	c.opts.Metrics.ObserveStageDuration("toc", time.Since(tocStart))

	writer := output.NewWriter(c.cfg.Output.Directory)
	if err := writer.Prepare(c.cfg.Output.Clean); err != nil {
		return nil, err
	}

	resolver, err := gitmeta.NewResolver(c.cfg.Source.Directory)
	if err != nil {
		slog.Warn("Git metadata unavailable", "error", err)
		resolver = nil
	}

	if c.opts.Force && c.opts.Cache != nil {
		if err := c.opts.Cache.Invalidate(ctx); err != nil {
			return nil, err
		}
	}

	m := manifest.New(c.cfg.Site.Title, c.cfg.Site.Description, c.cfg.Site.BaseURL)
	m.ConfigHash = configHash

	report := &Report{BuildID: m.ID}
	for _, section := range contents.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry := manifest.Section{ID: section.ID, Title: section.Title}
		for _, doc := range section.Documents {
			docEntry, built, err := c.compileDocument(ctx, doc, configHash, writer, resolver)
			if err != nil {
				return nil, fmt.Errorf("compile %s/%s: %w", doc.SectionID, doc.ID, err)
			}
			entry.Documents = append(entry.Documents, docEntry)
			report.Documents++
			if built {
				report.Built++
			} else {
				report.Skipped++
			}
		}
		m.Sections = append(m.Sections, entry)
	}

	c.opts.Metrics.IncDocuments("built", report.Built)
	c.opts.Metrics.IncDocuments("skipped", report.Skipped)

	if err := m.ComputeHash(); err != nil {
		return nil, err
	}
	manifestPath, err := writer.WriteManifest(m)
	if err != nil {
		return nil, err
	}
	report.ManifestPath = manifestPath
	report.ManifestHash = m.Hash

	slog.Info("Build complete",
		"documents", report.Documents,
		"built", report.Built,
		"skipped", report.Skipped,
		"manifest", manifestPath)
	return report, nil
}

// compileDocument processes one source file and returns its manifest entry.
// built is false when the signature cache proved the existing fragment fresh.
func (c *Compiler) compileDocument(ctx context.Context, doc toc.Document, configHash string, writer *output.Writer, resolver *gitmeta.Resolver) (manifest.Document, bool, error) {
	source, err := os.ReadFile(doc.SourcePath)
	if err != nil {
		return manifest.Document{}, false, fmt.Errorf("read source: %w", err)
	}

	signature := cache.Signature(source, configHash)
	if !c.opts.Force && c.opts.Cache != nil && writer.DocumentExists(doc.SectionID, doc.ID) {
		fresh, err := c.opts.Cache.Fresh(ctx, doc.SourcePath, signature)
		if err != nil {
			return manifest.Document{}, false, err
		}
		if fresh {
			entry, err := manifestEntryFromFragment(writer, doc)
			if err == nil {
				slog.Debug("Document unchanged, skipping", "document", doc.URL())
				return entry, false, nil
			}
			// Fall through and rebuild when the fragment is unreadable.
			slog.Warn("Stale fragment unreadable, rebuilding", "document", doc.URL(), "error", err)
		}
	}

	renderStart := time.Now()
	hdr, body, _, _, err := header.Split(source)
	if err != nil {
		return manifest.Document{}, false, err
	}
	result, err := render.Body(body)
	if err != nil {
		return manifest.Document{}, false, err
	}
	c.opts.Metrics.ObserveStageDuration("render", time.Since(renderStart))

	title := hdr.Title()
	if title == "" {
		title = doc.ID
	}

	out := &output.Document{
		ID:       doc.ID,
		Section:  doc.SectionID,
		Title:    title,
		URL:      doc.URL(),
		Header:   hdr.Fields,
		HTML:     result.HTML,
		Summary:  result.Summary,
		Examples: result.Examples,
	}
	if desc := hdr.Get("description"); desc != "" {
		out.Summary = desc
	}

	if meta, ok, err := resolver.Lookup(doc.SourcePath); err != nil {
		slog.Warn("Git lookup failed", "document", doc.URL(), "error", err)
	} else if ok {
		out.Commit = meta.Commit
		t := meta.LastModified
		out.LastModified = &t
	}

	if _, err := writer.WriteDocument(out); err != nil {
		return manifest.Document{}, false, err
	}
	if c.opts.Cache != nil {
		if err := c.opts.Cache.Record(ctx, doc.SourcePath, signature); err != nil {
			return manifest.Document{}, false, err
		}
	}

	return manifest.Document{
		ID:      doc.ID,
		Title:   title,
		URL:     doc.URL(),
		Summary: out.Summary,
	}, true, nil
}

// manifestEntryFromFragment rebuilds a manifest entry from the fragment
// already on disk, so skipped documents keep their titles and summaries.
func manifestEntryFromFragment(writer *output.Writer, doc toc.Document) (manifest.Document, error) {
	fragment, err := output.ReadDocument(writer.Dir(), doc.SectionID, doc.ID)
	if err != nil {
		return manifest.Document{}, err
	}
	return manifest.Document{
		ID:      doc.ID,
		Title:   fragment.Title,
		URL:     doc.URL(),
		Summary: fragment.Summary,
	}, nil
}
