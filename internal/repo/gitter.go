// Package repo discovers candidate files through the git command line.
package repo

import (
	"context"
	"errors"
)

// DefaultBase is the upstream reference used when only changed files are formatted.
const DefaultBase = "origin/main"

// ErrNotGitRepo is returned when the working directory is not inside a git repository.
var ErrNotGitRepo = errors.New("not a git repository")

// Gitter defines the git operations used to find files to format.
// Paths are returned relative to the Gitter's working directory.
type Gitter interface {
	// Root returns the top-level directory of the repository.
	Root(ctx context.Context) (string, error)

	// Prefix returns the working directory relative to Root, slash separated
	// with a trailing slash, or "" at the top level.
	Prefix(ctx context.Context) (string, error)

	// TrackedFiles lists every file tracked by git.
	TrackedFiles(ctx context.Context) ([]string, error)

	// ChangedFiles lists files that differ from base, including deleted ones.
	ChangedFiles(ctx context.Context, base string) ([]string, error)
}
