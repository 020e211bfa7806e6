package executor

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner(t *testing.T) {
	t.Parallel()

	r := NewExecRunner()

	t.Run("captures stdout and stderr together", func(t *testing.T) {
		t.Parallel()
		out, err := r.Run(context.Background(), []string{"sh", "-c", "echo out; echo err >&2"})
		require.NoError(t, err)
		assert.Contains(t, string(out), "out\n")
		assert.Contains(t, string(out), "err\n")
	})

	t.Run("non-zero exit is an error", func(t *testing.T) {
		t.Parallel()
		out, err := r.Run(context.Background(), []string{"sh", "-c", "echo nope; exit 4"})
		require.Error(t, err)
		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 4, exitErr.ExitCode())
		assert.Equal(t, "nope", strings.TrimSpace(string(out)))

		cmdErr := &CommandError{Args: []string{"sh", "-c", "exit 4"}, Err: err}
		assert.Equal(t, "sh exited with code 4", cmdErr.Error())
		assert.Equal(t, "sh -c exit 4", cmdErr.Command())
		assert.ErrorIs(t, cmdErr, err)
	})

	t.Run("respects working directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		wr := &ExecRunner{Dir: dir}
		out, err := wr.Run(context.Background(), []string{"pwd"})
		require.NoError(t, err)
		assert.Contains(t, strings.TrimSpace(string(out)), filepath.Base(dir))
	})

	t.Run("empty command", func(t *testing.T) {
		t.Parallel()
		_, err := r.Run(context.Background(), nil)
		require.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := r.Run(ctx, []string{"sleep", "5"})
		require.Error(t, err)
	})
}

func TestCommandError_NonExit(t *testing.T) {
	t.Parallel()

	err := &CommandError{Args: []string{"black"}, Err: errors.New("executable file not found in $PATH")}
	assert.Equal(t, "black failed: executable file not found in $PATH", err.Error())
}

func TestMode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "apply", ModeApply.String())
	assert.Equal(t, "check", ModeCheck.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
