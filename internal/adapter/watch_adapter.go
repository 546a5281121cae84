package adapter

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

// ChangeHandler receives the paths changed during one quiet period.
type ChangeHandler func(ctx context.Context, paths []m.Path) error

// WatchAdapter reports batches of filesystem changes under a directory tree.
type WatchAdapter interface {
	// Watch blocks until ctx is done. Handler calls never overlap; events that
	// arrive while the handler runs are delivered in the next batch.
	Watch(ctx context.Context, root m.Path, handler ChangeHandler) error
}

// FSNotifyWatchAdapter is the fsnotify backed WatchAdapter.
type FSNotifyWatchAdapter struct {
	debounce time.Duration
	accept   func(path string) bool
}

// NewFSNotifyWatchAdapter constructs a watcher that waits for debounce of
// silence before calling the handler. accept filters file events; nil accepts all.
func NewFSNotifyWatchAdapter(debounce time.Duration, accept func(path string) bool) *FSNotifyWatchAdapter {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	if accept == nil {
		accept = func(string) bool { return true }
	}

	return &FSNotifyWatchAdapter{debounce: debounce, accept: accept}
}

// Watch adds root and its subdirectories and dispatches debounced batches.
func (a *FSNotifyWatchAdapter) Watch(ctx context.Context, root m.Path, handler ChangeHandler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, string(root)); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	timer := time.NewTimer(a.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	pending := make(map[m.Path]struct{})

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if err := addTree(watcher, event.Name); err != nil {
						slog.Warn("Failed to watch new directory", "path", event.Name, "error", err)
					}

					continue
				}
			}

			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}

			if !a.accept(event.Name) {
				continue
			}

			pending[m.Path(event.Name)] = struct{}{}

			timer.Reset(a.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.Warn("Watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}

			paths := make([]m.Path, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}

			sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
			clear(pending)

			if err := handler(ctx, paths); err != nil {
				slog.Error("Failed to handle file changes", "paths", len(paths), "error", err)
			}
		}
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if _, skip := skippedDirs[d.Name()]; skip && path != root {
			return filepath.SkipDir
		}

		return watcher.Add(path)
	})
}
