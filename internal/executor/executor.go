package executor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/andyballingall/repofmt/internal/formatter"
	"github.com/andyballingall/repofmt/internal/fs"
)

// Executor formats single files. It is safe for concurrent use as long as no
// two calls share a path.
type Executor struct {
	registry *formatter.Registry
	runner   CommandRunner
	logger   *slog.Logger
	// prefix locates the working directory inside the repository.
	prefix string
}

// New creates an Executor that classifies paths with registry and runs commands with runner.
func New(registry *formatter.Registry, runner CommandRunner, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{
		registry: registry,
		runner:   runner,
		logger:   logger.With("component", "executor"),
	}
}

// SetPrefix sets the working directory's position relative to the repository
// root (for example "vendor/"). Relative paths are classified as if they were
// given from the root, so patterns containing '/' select the same files from
// any directory.
func (e *Executor) SetPrefix(prefix string) {
	e.prefix = prefix
}

// repoPath returns the slash-separated, root-relative form of path.
func (e *Executor) repoPath(p string) string {
	if e.prefix == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.ToSlash(filepath.Join(filepath.FromSlash(e.prefix), p))
}

// Execute runs the formatter chain for path against a scratch copy and then
// either diffs (ModeCheck) or replaces the original when its bytes changed
// (ModeApply). The original is never modified when any command fails.
func (e *Executor) Execute(ctx context.Context, path string, opts Options) Report {
	plan := e.registry.Classify(e.repoPath(path))
	plan.Path = path
	if plan.Empty() {
		r := Report{Path: path, Success: true, Skipped: true}
		if opts.Verbosity >= 1 {
			r.Text = fmt.Sprintf("Skipping %s as it does not match any of the formatters\n", path)
		}
		return r
	}

	t := &transcript{
		header:    fmt.Sprintf("Formatting %s with %s\n", path, plan.Describe()),
		verbosity: opts.Verbosity,
	}
	report := Report{Path: path, Rules: plan.RuleIDs}

	res, err := e.format(ctx, plan, opts, t)
	if err != nil {
		e.logger.Debug("formatting failed", "path", path, "error", err)
		report.Text = t.render(true, err.Error()+"\n")
		return report
	}

	report.Changed = res.changed
	report.Success = !(opts.Mode == ModeCheck && opts.FailOnDiff && res.changed)
	report.Text = t.render(!report.Success, res.diff)
	e.logger.Debug("formatted", "path", path, "mode", opts.Mode, "changed", res.changed)
	return report
}

type outcome struct {
	changed bool
	diff    string
}

// format performs the scratch copy, the command chain and the final check or
// replace step. The scratch directory is removed on every return path.
func (e *Executor) format(ctx context.Context, plan formatter.Plan, opts Options, t *transcript) (outcome, error) {
	path := plan.Path

	scratch, err := fs.NewScratch(filepath.Dir(path))
	if err != nil {
		return outcome{}, err
	}
	defer func() {
		if cErr := scratch.Close(); cErr != nil {
			e.logger.Warn("failed to remove scratch directory", "dir", scratch.Dir(), "error", cErr)
		}
	}()

	work, err := scratch.Stage(path)
	if err != nil {
		return outcome{}, fmt.Errorf("failed to copy %s: %w", path, err)
	}

	for _, args := range plan.Expand(work) {
		output, rErr := e.runner.Run(ctx, args)
		if rErr != nil {
			t.record(args, output, true)
			return outcome{}, &CommandError{Args: args, Err: rErr}
		}
		t.record(args, output, false)
	}

	if opts.Mode == ModeCheck {
		diff, dErr := UnifiedDiff(path, work, filepath.ToSlash(path), opts.UseColour)
		if dErr != nil {
			return outcome{}, dErr
		}
		return outcome{changed: diff != "", diff: diff}, nil
	}

	same, err := fs.SameContent(path, work)
	if err != nil {
		return outcome{}, fmt.Errorf("failed to compare %s: %w", path, err)
	}
	if same {
		return outcome{}, nil
	}

	// Formatters that write a new file get the umask's mode, not the original's.
	info, err := os.Stat(path)
	if err != nil {
		return outcome{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.Chmod(work, info.Mode().Perm()); err != nil {
		return outcome{}, fmt.Errorf("failed to set the mode of %s: %w", work, err)
	}

	if err := os.Rename(work, path); err != nil {
		return outcome{}, fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return outcome{changed: true}, nil
}

type step struct {
	args   []string
	output []byte
	failed bool
}

// transcript collects what happened while formatting one file and renders it
// according to the verbosity. A failed chain is always rendered in full so the
// user can see where it broke.
type transcript struct {
	header    string
	verbosity int
	steps     []step
}

func (t *transcript) record(args []string, output []byte, failed bool) {
	t.steps = append(t.steps, step{args: args, output: output, failed: failed})
}

func (t *transcript) render(failed bool, trailer string) string {
	var b strings.Builder

	if t.verbosity >= 1 || failed || trailer != "" {
		b.WriteString(t.header)
	}

	for _, s := range t.steps {
		if t.verbosity >= 2 || s.failed {
			fmt.Fprintf(&b, "\t$ %s\n", strings.Join(s.args, " "))
		}
		if len(s.output) > 0 && (t.verbosity >= 1 || failed) {
			b.Write(s.output)
			if s.output[len(s.output)-1] != '\n' {
				b.WriteByte('\n')
			}
		}
	}

	if trailer != "" {
		b.WriteString(trailer)
		if !strings.HasSuffix(trailer, "\n") {
			b.WriteByte('\n')
		}
	}

	return b.String()
}
