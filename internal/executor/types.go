// Package executor runs a file's formatter chain against an isolated copy and
// then either diffs it against the original or swaps it into place.
package executor

import "fmt"

// Mode selects what happens once the formatter chain has succeeded.
type Mode int

const (
	// ModeApply replaces the original file when the formatted copy differs.
	ModeApply Mode = iota
	// ModeCheck reports a unified diff and never touches the original.
	ModeCheck
)

func (m Mode) String() string {
	switch m {
	case ModeApply:
		return "apply"
	case ModeCheck:
		return "check"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Options control a single Execute call.
type Options struct {
	Mode Mode
	// Verbosity: 0 is silent on skip and success, 1 adds skip notices and tool
	// output, 2 adds the command lines.
	Verbosity int
	UseColour bool
	// FailOnDiff marks a file as failed when check mode finds differences.
	FailOnDiff bool
}

// Report is the outcome of formatting one file.
type Report struct {
	Path  string
	Rules []string
	// Text is the human readable transcript, written verbatim by the aggregator.
	Text    string
	Success bool
	Skipped bool
	// Changed means the file was rewritten (apply) or a diff was found (check).
	Changed bool
}
