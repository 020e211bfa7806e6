package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/andyballingall/repofmt/internal/dispatch"
	"github.com/andyballingall/repofmt/internal/executor"
	"github.com/andyballingall/repofmt/internal/report"
)

// ErrFormattingFailed is returned when at least one file could not be formatted,
// or, with FailOnDiff, when check mode found differences.
var ErrFormattingFailed = errors.New("formatting failed")

// FormatRequest carries everything a formatting run needs from the command line.
type FormatRequest struct {
	Selection dispatch.Selection
	Exec      executor.Options
	Output    string
	// Summary adds a closing line with file counts to text output.
	Summary bool
}

// Manager defines the operations behind the CLI.
type Manager interface {
	Format(ctx context.Context, req FormatRequest) error
	Watch(ctx context.Context, req FormatRequest, readyChan chan<- struct{}) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner  Manager
	closer io.Closer
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// SetCloser registers a resource, such as the log file, released by Close.
func (l *LazyManager) SetCloser(c io.Closer) {
	l.closer = c
}

// Close releases the resource registered with SetCloser, if any.
func (l *LazyManager) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// HasInner returns true if the inner manager has been set.
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Format(ctx context.Context, req FormatRequest) error {
	return l.check().Format(ctx, req)
}

func (l *LazyManager) Watch(ctx context.Context, req FormatRequest, readyChan chan<- struct{}) error {
	return l.check().Watch(ctx, req, readyChan)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger     *slog.Logger
	dispatcher *dispatch.Dispatcher
	watchRoot  string
	stdout     io.Writer
}

func NewCLIManager(l *slog.Logger, d *dispatch.Dispatcher, watchRoot string, stdout io.Writer) *CLIManager {
	return &CLIManager{
		logger:     l,
		dispatcher: d,
		watchRoot:  watchRoot,
		stdout:     stdout,
	}
}

// Format selects the candidate files and formats them on the worker pool.
func (m *CLIManager) Format(ctx context.Context, req FormatRequest) error {
	m.logger.Debug("formatting", "all", req.Selection.All, "base", req.Selection.Base,
		"globs", req.Selection.Globs, "mode", req.Exec.Mode, "verbosity", req.Exec.Verbosity)

	files, err := m.dispatcher.Candidates(ctx, req.Selection)
	if err != nil {
		return err
	}
	return m.formatFiles(ctx, files, req)
}

func (m *CLIManager) formatFiles(ctx context.Context, files []string, req FormatRequest) error {
	out, err := report.Aggregate(m.dispatcher.Run(ctx, files, req.Exec), m.newReporter(req))
	if err != nil {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	m.logger.Debug("run complete", "files", out.Files, "changed", out.Changed,
		"failed", out.Failed, "skipped", out.Skipped)
	if !out.Success {
		return ErrFormattingFailed
	}
	return nil
}

func (m *CLIManager) newReporter(req FormatRequest) report.Reporter {
	if req.Output == "json" {
		return report.NewJSONReporter(m.stdout)
	}
	tr := report.NewTextReporter(m.stdout)
	tr.Summary = req.Summary
	tr.UseColour = req.Exec.UseColour
	return tr
}

// Watch formats files as they are written until ctx is cancelled. Files are
// filtered by the request's globs; failures are reported and watching continues.
// If you want to know when the watcher is ready, pass a non-nil readyChan.
func (m *CLIManager) Watch(ctx context.Context, req FormatRequest, readyChan chan<- struct{}) error {
	m.logger.Debug("watching", "root", m.watchRoot, "globs", req.Selection.Globs, "mode", req.Exec.Mode)

	watcher := dispatch.NewWatcher(m.watchRoot, m.logger)

	callback := func(batch []string) {
		files := dispatch.FilterPaths(batch, req.Selection.Globs)
		if len(files) == 0 {
			return
		}
		for i, f := range files {
			files[i] = filepath.Join(m.watchRoot, f)
		}
		m.logger.Info("Files changed:", "count", len(files))
		err := m.formatFiles(ctx, files, req)
		switch {
		case errors.Is(err, ErrFormattingFailed):
			m.logger.Warn("Some files could not be formatted")
		case err != nil && ctx.Err() == nil:
			m.logger.Error("Formatting failed", "error", err)
		}
	}

	if readyChan != nil {
		go func() {
			select {
			case <-watcher.Ready:
				readyChan <- struct{}{}
			case <-ctx.Done():
			}
		}()
	}

	err := watcher.Watch(ctx, callback)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
