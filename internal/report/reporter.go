// Package report renders per-file formatting reports and folds them into the
// overall outcome of a run.
package report

import (
	"github.com/andyballingall/repofmt/internal/executor"
)

// Reporter receives file reports as they complete. Report may be called from
// a single goroutine only; Close flushes anything buffered.
type Reporter interface {
	Report(r executor.Report) error
	Close() error
}

// Stats counts file reports by kind.
type Stats struct {
	Files   int `json:"files"`
	Changed int `json:"changed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

func (s *Stats) add(r executor.Report) {
	s.Files++
	if r.Changed {
		s.Changed++
	}
	if !r.Success {
		s.Failed++
	}
	if r.Skipped {
		s.Skipped++
	}
}

// Outcome is the folded result of a run.
type Outcome struct {
	Stats
	// Success is true iff every file succeeded. An empty run succeeds.
	Success bool
}

// Aggregate drains reports, forwards each one to rep and closes rep once the
// channel is closed. The channel is always drained so producers never block,
// and the first reporter error is returned after the fold is complete.
func Aggregate(reports <-chan executor.Report, rep Reporter) (Outcome, error) {
	out := Outcome{Success: true}
	var firstErr error

	for r := range reports {
		out.add(r)
		out.Success = out.Success && r.Success
		if err := rep.Report(r); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := rep.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return out, firstErr
}
