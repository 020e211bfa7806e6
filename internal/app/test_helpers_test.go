package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/repofmt/internal/dispatch"
	"github.com/andyballingall/repofmt/internal/executor"
	"github.com/andyballingall/repofmt/internal/formatter"
)

type MockManager struct {
	mock.Mock
}

func (m *MockManager) Format(ctx context.Context, req FormatRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockManager) Watch(ctx context.Context, req FormatRequest, readyChan chan<- struct{}) error {
	args := m.Called(ctx, req, readyChan)
	return args.Error(0)
}

// MockGitter is a test mock for the repo.Gitter interface.
type MockGitter struct {
	mock.Mock
}

func (m *MockGitter) Root(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGitter) Prefix(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGitter) TrackedFiles(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	files, _ := args.Get(0).([]string)
	return files, args.Error(1)
}

func (m *MockGitter) ChangedFiles(ctx context.Context, base string) ([]string, error) {
	args := m.Called(ctx, base)
	files, _ := args.Get(0).([]string)
	return files, args.Error(1)
}

const (
	upperScript = `tr 'a-z' 'A-Z' < "$1" > "$1.tmp" && mv "$1.tmp" "$1"`
	failScript  = `echo "cannot parse $1" >&2; exit 3`
)

// writeScript creates an executable /bin/sh script in dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	//nolint:gosec // test formatter must be executable
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return p
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(data)
}

// newTestDispatcher wires a real executor running shell-script formatters:
// "upper" for *.txt files and "fail" for *.bad files.
func newTestDispatcher(t *testing.T, g *MockGitter) *dispatch.Dispatcher {
	t.Helper()
	bin := t.TempDir()
	upper := writeScript(t, bin, "upper.sh", upperScript)
	fail := writeScript(t, bin, "fail.sh", failScript)

	reg, err := formatter.NewRegistry(
		formatter.Rule{
			ID:       "upper",
			Commands: []formatter.CommandTemplate{{upper, formatter.PathPlaceholder}},
			Include:  []string{"*.txt"},
		},
		formatter.Rule{
			ID:       "fail",
			Commands: []formatter.CommandTemplate{{fail, formatter.PathPlaceholder}},
			Include:  []string{"*.bad"},
		},
	)
	require.NoError(t, err)

	d := dispatch.NewDispatcher(g, executor.New(reg, executor.NewExecRunner(), nil), nil)
	d.SetNumWorkers(2)
	return d
}
