package repo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CLIGitter is the concrete implementation of Gitter using the git CLI.
type CLIGitter struct {
	dir string
}

// NewCLIGitter creates a CLIGitter that runs git in dir. An empty dir means the
// current working directory.
func NewCLIGitter(dir string) *CLIGitter {
	return &CLIGitter{dir: dir}
}

// Root returns the top-level directory of the repository.
func (g *CLIGitter) Root(ctx context.Context) (string, error) {
	out, err := g.git(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Prefix returns the working directory relative to the repository root.
func (g *CLIGitter) Prefix(ctx context.Context) (string, error) {
	out, err := g.git(ctx, "rev-parse", "--show-prefix")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// TrackedFiles lists every tracked file below the working directory.
func (g *CLIGitter) TrackedFiles(ctx context.Context) ([]string, error) {
	out, err := g.git(ctx, "ls-files", "-z")
	if err != nil {
		return nil, err
	}
	return splitPaths(out), nil
}

// ChangedFiles lists files below the working directory that differ from base.
// --relative keeps the paths consistent with TrackedFiles.
func (g *CLIGitter) ChangedFiles(ctx context.Context, base string) ([]string, error) {
	if base == "" {
		base = DefaultBase
	}
	out, err := g.git(ctx, "diff", "--name-only", "--relative", "-z", base, "--")
	if err != nil {
		return nil, err
	}
	return splitPaths(out), nil
}

func (g *CLIGitter) git(ctx context.Context, args ...string) ([]byte, error) {
	//nolint:gosec // arguments are fixed apart from the base reference
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if strings.Contains(stderr.String(), "not a git repository") {
			return nil, ErrNotGitRepo
		}
		return nil, fmt.Errorf("git %s failed: %w (output: %s)",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// splitPaths splits NUL separated git output.
func splitPaths(out []byte) []string {
	fields := strings.Split(string(out), "\x00")
	paths := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			paths = append(paths, f)
		}
	}
	return paths
}
