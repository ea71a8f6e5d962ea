// Package watch reruns a build whenever its source file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/FocuswithJustin/sid/internal/archive"
	"github.com/FocuswithJustin/sid/internal/logging"
)

// DefaultDebounce is how long changes are collected before a rebuild.
const DefaultDebounce = 250 * time.Millisecond

// Watcher follows one source file. The parent directory is watched so
// editors that save by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	fsw      *fsnotify.Watcher

	pending  bool
	lastHash string
}

// New starts watching path. A zero debounce uses DefaultDebounce.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{path: abs, debounce: debounce, fsw: fsw}
	w.lastHash, _ = hashFile(abs)
	return w, nil
}

// Run calls onChange after each settled change to the file's content
// until ctx is done. Errors from onChange are logged and watching goes on.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	logging.InfoContext(ctx, "watch_started", "path", w.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.pending = true
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logging.WarnContext(ctx, "watch_error", "path", w.path, "error", err.Error())

		case <-ticker.C:
			if !w.pending {
				continue
			}
			w.pending = false
			if !w.changed() {
				continue
			}
			logging.InfoContext(ctx, "source_changed", "path", w.path)
			if err := onChange(ctx); err != nil {
				logging.ErrorContext(ctx, "rebuild_failed", "path", w.path, "error", err.Error())
			}
		}
	}
}

// changed reports whether the file's content differs from the last seen
// content. Unreadable files count as unchanged.
func (w *Watcher) changed() bool {
	h, err := hashFile(w.path)
	if err != nil || h == w.lastHash {
		return false
	}
	w.lastHash = h
	return true
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func hashFile(path string) (string, error) {
	d, err := archive.DigestFile(path)
	if err != nil {
		return "", err
	}
	return d.BLAKE3, nil
}
