package repo

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	gitIn(t, dir, "init", "-q")
	gitIn(t, dir, "config", "user.email", "test@example.com")
	gitIn(t, dir, "config", "user.name", "Test User")
	gitIn(t, dir, "config", "commit.gpgsign", "false")
	gitIn(t, dir, "commit", "-q", "--allow-empty", "-m", "initial commit")

	return dir
}

func gitIn(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func TestCLIGitter_TrackedFiles(t *testing.T) {
	t.Parallel()
	dir := setupTestRepo(t)

	writeFile(t, dir, "a.py", "x\n")
	writeFile(t, dir, "src/b c.cpp", "y\n")
	writeFile(t, dir, "untracked.js", "z\n")
	gitIn(t, dir, "add", "a.py", "src/b c.cpp")
	gitIn(t, dir, "commit", "-q", "-m", "add files")

	g := NewCLIGitter(dir)

	t.Run("lists tracked files only", func(t *testing.T) {
		t.Parallel()
		files, err := g.TrackedFiles(context.Background())
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a.py", "src/b c.cpp"}, files)
	})

	t.Run("paths are relative to the working directory", func(t *testing.T) {
		t.Parallel()
		files, err := NewCLIGitter(filepath.Join(dir, "src")).TrackedFiles(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"b c.cpp"}, files)
	})
}

func TestCLIGitter_ChangedFiles(t *testing.T) {
	t.Parallel()
	dir := setupTestRepo(t)

	writeFile(t, dir, "keep.py", "x\n")
	writeFile(t, dir, "gone.py", "x\n")
	gitIn(t, dir, "add", ".")
	gitIn(t, dir, "commit", "-q", "-m", "base")
	gitIn(t, dir, "tag", "base")

	writeFile(t, dir, "new.cpp", "y\n")
	gitIn(t, dir, "add", "new.cpp")
	gitIn(t, dir, "rm", "-q", "gone.py")
	gitIn(t, dir, "commit", "-q", "-m", "change")
	writeFile(t, dir, "keep.py", "modified\n")

	g := NewCLIGitter(dir)

	t.Run("committed and working tree changes", func(t *testing.T) {
		t.Parallel()
		files, err := g.ChangedFiles(context.Background(), "base")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"gone.py", "keep.py", "new.cpp"}, files)
	})

	t.Run("nothing changed against HEAD", func(t *testing.T) {
		t.Parallel()
		files, err := g.ChangedFiles(context.Background(), "HEAD")
		require.NoError(t, err)
		assert.Equal(t, []string{"keep.py"}, files)
	})

	t.Run("unknown base", func(t *testing.T) {
		t.Parallel()
		_, err := g.ChangedFiles(context.Background(), "no-such-ref")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "git diff --name-only --relative -z no-such-ref -- failed")
	})

	t.Run("default base without a remote", func(t *testing.T) {
		t.Parallel()
		_, err := g.ChangedFiles(context.Background(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), DefaultBase)
	})
}

func TestCLIGitter_Root(t *testing.T) {
	t.Parallel()
	dir := setupTestRepo(t)
	writeFile(t, dir, "sub/x.txt", "x")

	root, err := NewCLIGitter(filepath.Join(dir, "sub")).Root(context.Background())
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCLIGitter_Prefix(t *testing.T) {
	t.Parallel()
	dir := setupTestRepo(t)
	writeFile(t, dir, "vendor/lib/x.txt", "x")

	tests := []struct {
		name string
		sub  string
		want string
	}{
		{name: "top level", sub: "", want: ""},
		{name: "nested directory", sub: "vendor/lib", want: "vendor/lib/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewCLIGitter(filepath.Join(dir, tt.sub)).Prefix(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

//nolint:paralleltest // t.Setenv is used
func TestCLIGitter_NotARepository(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	_, err := NewCLIGitter(dir).TrackedFiles(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotGitRepo), "got %v", err)
}

func TestCLIGitter_Cancelled(t *testing.T) {
	t.Parallel()
	dir := setupTestRepo(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCLIGitter(dir).TrackedFiles(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSplitPaths(t *testing.T) {
	t.Parallel()
	assert.Empty(t, splitPaths(nil))
	assert.Equal(t, []string{"a", "b/c d"}, splitPaths([]byte("a\x00b/c d\x00")))
}
