package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-ogimage"
)

// watchDebounce coalesces a burst of saves into one rebuild.
const watchDebounce = 300 * time.Millisecond

// watchTarget lists what triggers a rebuild.
type watchTarget struct {
	dirs  []string // Watched recursively, hidden dirs and node_modules excluded
	files []string // Single files, such as the template
	exts  []string // Extensions under dirs that count, e.g. ".md"
}

// relevant reports whether a change to name should trigger a rebuild.
// Hidden files are ignored; atomic rewrites use hidden temp names.
func (t watchTarget) relevant(name string) bool {
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	if slices.Contains(t.files, filepath.Clean(name)) {
		return true
	}
	return slices.Contains(t.exts, strings.ToLower(filepath.Ext(name)))
}

// watch runs build, then runs it again after each relevant change until ctx is
// canceled. Build failures are logged and the watch goes on, so a broken page
// can be fixed without restarting.
func watch(ctx context.Context, logger *slog.Logger, target watchTarget, build func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: starting watcher: %v", ogimage.ErrIO, err)
	}
	defer func() { _ = w.Close() }()

	for _, dir := range target.dirs {
		addDirsRecursive(w, dir, logger)
	}
	for i, f := range target.files {
		target.files[i] = filepath.Clean(f)
		if err := w.Add(filepath.Dir(f)); err != nil {
			logger.Warn("watch add failed", slog.String("path", f), slog.Any("error", err))
		}
	}

	rebuild := func() {
		if err := build(ctx); err != nil && ctx.Err() == nil {
			logger.Error("build failed", slog.String("error", describeError(err)))
		}
	}
	rebuild()
	logger.Info("watching for changes", slog.Any("dirs", target.dirs))

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					addDirsRecursive(w, ev.Name, logger)
					continue
				}
			}
			if !target.relevant(ev.Name) {
				continue
			}
			logger.Debug("change detected", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.Any("error", err))
		case <-timer.C:
			logger.Info("change detected, rebuilding")
			rebuild()
		}
	}
}

// addDirsRecursive watches root and its subdirectories.
func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			logger.Warn("watch add failed", slog.String("dir", path), slog.Any("error", err))
		}
		return nil
	})
}
