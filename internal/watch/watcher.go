// Package watch rebuilds the site when documentation sources change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a documentation tree and triggers debounced rebuilds.
type Watcher struct {
	dir      string
	debounce *Debouncer
	notify   *fsnotify.Watcher
}

// New creates a watcher over dir. onBuild runs once per coalesced burst of
// changes, on the watcher's goroutine.
func New(dir string, cfg DebounceConfig, onBuild func()) (*Watcher, error) {
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		dir:      dir,
		debounce: NewDebouncer(cfg, onBuild),
		notify:   notify,
	}
	if err := w.addRecursive(dir); err != nil {
		_ = notify.Close()
		return nil, err
	}
	return w, nil
}

// Run pumps filesystem events into the debouncer until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.notify.Close()

	go func() {
		if err := w.debounce.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("Debouncer stopped", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.notify.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.notify.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New directories must be watched before files land in them.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				slog.Warn("Failed to watch new directory", "dir", event.Name, "error", err)
			}
			return
		}
	}

	if !relevant(event.Name) {
		return
	}
	slog.Debug("Source changed", "path", event.Name, "op", event.Op.String())
	w.debounce.Request()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.notify.Add(path)
		}
		return nil
	})
}

// relevant filters notification noise down to compiler inputs.
func relevant(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".yaml", ".yml":
		return true
	}
	return false
}
