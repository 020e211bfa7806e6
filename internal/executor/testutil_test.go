package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andyballingall/repofmt/internal/formatter"
)

// writeScript creates an executable /bin/sh script in dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	//nolint:gosec // test formatter must be executable
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return p
}

// writeFile creates a file with the given content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(data)
}

// rule builds a single-command rule that runs script against files matching include.
func rule(id, script string, include ...string) formatter.Rule {
	return formatter.Rule{
		ID:       id,
		Commands: []formatter.CommandTemplate{{script, formatter.PathPlaceholder}},
		Include:  include,
	}
}

func newTestExecutor(t *testing.T, rules ...formatter.Rule) *Executor {
	t.Helper()
	reg, err := formatter.NewRegistry(rules...)
	require.NoError(t, err)
	return New(reg, NewExecRunner(), nil)
}

// assertNoScratch fails if a scratch directory was left behind in dir.
func assertNoScratch(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".repofmt-*"))
	require.NoError(t, err)
	require.Empty(t, matches, "scratch directory left behind")
}

// funcRunner adapts a function to CommandRunner.
type funcRunner func(ctx context.Context, args []string) ([]byte, error)

func (f funcRunner) Run(ctx context.Context, args []string) ([]byte, error) {
	return f(ctx, args)
}

const (
	upperScript  = `tr 'a-z' 'A-Z' < "$1" > "$1.tmp" && mv "$1.tmp" "$1"`
	appendScript = `printf 'one\n' >> "$1"`
	sortScript   = `sort -o "$1" "$1"`
	noopScript   = `exit 0`
)
