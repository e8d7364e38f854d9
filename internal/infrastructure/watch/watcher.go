package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/specforge/specforge/pkg/storage"
)

// skipNames are directory names never watched; the workspace directory is
// excluded so our own artifact writes do not trigger rescans.
var skipNames = map[string]bool{
	storage.SpecforgeDir: true,
	"node_modules":       true,
	"dist":               true,
	"build":              true,
	"vendor":             true,
}

// SourceWatcher watches a project tree and fires a single callback after a
// burst of source changes settles. Pending-path bookkeeping lives in the
// Debouncer, which is safe against events arriving while a settle fires.
type SourceWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onSettle func(changed []string)
}

// NewSourceWatcher creates a watcher. onSettle receives the distinct paths
// changed during the settled burst.
func NewSourceWatcher(debounce time.Duration, onSettle func(changed []string)) (*SourceWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	return &SourceWatcher{
		watcher:  w,
		debounce: debounce,
		onSettle: onSettle,
	}, nil
}

// WatchRecursive adds a directory and all its subdirectories, skipping
// hidden and generated directories.
func (w *SourceWatcher) WatchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		name := info.Name()
		if path != root && (strings.HasPrefix(name, ".") || skipNames[name]) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *SourceWatcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	debouncer := NewDebouncer(w.debounce, func(changed []string) {
		if w.onSettle != nil {
			w.onSettle(changed)
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event.Op) || ignored(event.Name) {
				continue
			}

			// Newly created directories join the watch set.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.WatchRecursive(event.Name)
				}
			}

			debouncer.Trigger(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}

func ignored(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if skipNames[segment] {
			return true
		}
	}
	return false
}
