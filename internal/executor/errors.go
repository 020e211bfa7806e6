package executor

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandError is returned when a command in a formatter chain fails.
type CommandError struct {
	Args []string
	Err  error
}

func (e *CommandError) Error() string {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return fmt.Sprintf("%s exited with code %d", e.Args[0], exitErr.ExitCode())
	}
	return fmt.Sprintf("%s failed: %v", e.Args[0], e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Command returns the failing command line.
func (e *CommandError) Command() string {
	return strings.Join(e.Args, " ")
}
