// Package dispatch selects candidate files and fans them out to a fixed pool of
// formatting workers.
package dispatch

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/andyballingall/repofmt/internal/executor"
	"github.com/andyballingall/repofmt/internal/formatter"
	"github.com/andyballingall/repofmt/internal/fs"
	"github.com/andyballingall/repofmt/internal/repo"
)

// FileExecutor formats a single file.
type FileExecutor interface {
	Execute(ctx context.Context, path string, opts executor.Options) executor.Report
}

// Selection describes which files a run should consider.
type Selection struct {
	// All selects every tracked file rather than the files changed since Base.
	All  bool
	Base string
	// Globs, when non-empty, keep only paths matching at least one pattern.
	Globs []string
}

// Dispatcher discovers candidate files and runs them through a worker pool.
type Dispatcher struct {
	gitter     repo.Gitter
	exec       FileExecutor
	numWorkers int
	logger     *slog.Logger
}

// NewDispatcher creates a Dispatcher with one worker per usable CPU.
func NewDispatcher(g repo.Gitter, e FileExecutor, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		gitter:     g,
		exec:       e,
		numWorkers: runtime.GOMAXPROCS(0),
		logger:     logger.With("component", "dispatcher"),
	}
}

// SetNumWorkers controls the number of formatting workers. Values below one
// are ignored.
func (d *Dispatcher) SetNumWorkers(n int) {
	if n > 0 {
		d.numWorkers = n
	}
}

// NumWorkers returns the size of the worker pool.
func (d *Dispatcher) NumWorkers() int {
	return d.numWorkers
}

// Candidates lists the files selected by sel. Paths git reports that are not
// regular files (deleted files, submodules, symlinks) are dropped.
func (d *Dispatcher) Candidates(ctx context.Context, sel Selection) ([]string, error) {
	var (
		files []string
		err   error
	)
	if sel.All {
		files, err = d.gitter.TrackedFiles(ctx)
	} else {
		files, err = d.gitter.ChangedFiles(ctx, sel.Base)
	}
	if err != nil {
		return nil, err
	}

	listed := len(files)
	files = FilterPaths(fs.FilterRegularFiles(files), sel.Globs)
	d.logger.Debug("selected candidates", "all", sel.All, "base", sel.Base, "listed", listed, "selected", len(files))
	return files, nil
}

// FilterPaths keeps the paths matching at least one glob, preserving order.
// No globs means no filtering.
func FilterPaths(paths, globs []string) []string {
	if len(globs) == 0 {
		return paths
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if formatter.MatchAny(globs, p) {
			out = append(out, p)
		}
	}
	return out
}

// Run formats files on the worker pool and streams one report per processed
// file, in completion order. The channel is closed once every worker has
// finished. When ctx is cancelled workers stop taking new files, so fewer
// reports than files may be delivered.
func (d *Dispatcher) Run(ctx context.Context, files []string, opts executor.Options) <-chan executor.Report {
	results := make(chan executor.Report, d.numWorkers)
	jobs := make(chan string)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for _, f := range files {
			select {
			case <-gCtx.Done():
				return nil
			case jobs <- f:
			}
		}
		return nil
	})

	workers := min(d.numWorkers, max(len(files), 1))
	for range workers {
		g.Go(func() error {
			for path := range jobs {
				if gCtx.Err() != nil {
					continue
				}
				results <- d.exec.Execute(gCtx, path, opts)
			}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	d.logger.Debug("dispatching", "files", len(files), "workers", workers, "mode", opts.Mode)
	return results
}
