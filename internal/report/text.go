package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/andyballingall/repofmt/internal/executor"
)

// TextReporter writes each report's transcript to w as it arrives.
type TextReporter struct {
	// Summary adds a closing line with the file counts.
	Summary   bool
	UseColour bool

	mu    sync.Mutex
	w     io.Writer
	stats Stats
}

// NewTextReporter creates a TextReporter writing to w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

const (
	colReset     = "\033[0m"
	colBoldRed   = "\033[1;31m"
	colBoldGreen = "\033[1;32m"
	colBoldWhite = "\033[1;37m"
)

// cs returns a string which will render with the given colour
// if colourisation is enabled.
func (tr *TextReporter) cs(c, s string) string {
	if !tr.UseColour {
		return s
	}
	return c + s + colReset
}

// Report writes the transcript in a single call so that output from
// different files never interleaves.
func (tr *TextReporter) Report(r executor.Report) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.stats.add(r)
	if r.Text == "" {
		return nil
	}
	_, err := io.WriteString(tr.w, r.Text)
	return err
}

// Close writes the summary line when enabled.
func (tr *TextReporter) Close() error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if !tr.Summary {
		return nil
	}

	s := tr.stats
	stats := fmt.Sprintf("%d files, %d changed, %d failed, %d skipped", s.Files, s.Changed, s.Failed, s.Skipped)
	col := colBoldGreen
	if s.Failed > 0 {
		col = colBoldRed
	}
	_, err := fmt.Fprintf(tr.w, "%s%s\n", tr.cs(colBoldWhite, "Summary: "), tr.cs(col, stats))
	return err
}
