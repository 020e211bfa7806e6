package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// CommandRunner runs one external command and returns its combined stdout and stderr.
// A non-zero exit must be reported as an error.
type CommandRunner interface {
	Run(ctx context.Context, args []string) ([]byte, error)
}

// ExecRunner runs commands as child processes of repofmt.
type ExecRunner struct {
	// Dir is the working directory of every command; empty means the current directory.
	Dir string
}

// NewExecRunner returns an ExecRunner for the current directory.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}

	//nolint:gosec // commands come from the formatter registry
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = r.Dir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	return output.Bytes(), err
}
