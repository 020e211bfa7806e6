package dispatch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/andyballingall/repofmt/internal/fs"
)

// DefaultDebounce is how long the watcher waits for further events before
// handing a batch to the callback.
const DefaultDebounce = 100 * time.Millisecond

// Watcher monitors a working tree and reports batches of changed files.
type Watcher struct {
	root     string
	logger   *slog.Logger
	debounce time.Duration
	Ready    chan struct{}

	newWatcher func() (*fsnotify.Watcher, error)
}

// NewWatcher creates a Watcher for the tree rooted at root.
func NewWatcher(root string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		root:       root,
		logger:     logger.With("component", "watcher"),
		debounce:   DefaultDebounce,
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
	}
}

// Watch blocks until ctx is cancelled, calling callback with the sorted,
// root-relative paths of regular files written or created since the previous
// batch. Callbacks run one at a time on the watching goroutine; events that
// arrive while a callback runs are batched for the next one.
func (w *Watcher) Watch(ctx context.Context, callback func([]string)) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := w.addRecursive(watcher, w.root); err != nil {
		return err
	}

	w.logger.Info("Watching for changes", "root", w.root)
	if w.Ready != nil {
		close(w.Ready)
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if p, relevant := w.handleEvent(watcher, event); relevant {
				pending[p] = struct{}{}
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				if fs.IsRegularFile(filepath.Join(w.root, p)) {
					batch = append(batch, p)
				}
			}
			clear(pending)
			if len(batch) == 0 {
				continue
			}
			sort.Strings(batch)
			callback(batch)
		}
	}
}

// handleEvent adds newly created directories to the watcher and returns the
// root-relative path of a file event worth formatting.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || ignored(rel) {
		return "", false
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if err := w.addRecursive(watcher, event.Name); err != nil {
				w.logger.Error("Failed to watch new directory", "path", event.Name, "error", err)
			}
			return "", false
		}
	}

	return rel, true
}

// addRecursive adds root and all its visible subdirectories to the watcher.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// ignored reports whether a root-relative path is hidden or lives inside a
// scratch directory. Hidden covers version-control metadata.
func ignored(rel string) bool {
	if rel == "." || strings.HasPrefix(rel, "..") || fs.InScratch(rel) {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
