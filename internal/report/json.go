package report

import (
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/andyballingall/repofmt/internal/executor"
)

// JSONReporter collects reports and writes them as one JSON document on Close.
type JSONReporter struct {
	w     io.Writer
	now   func() time.Time
	start time.Time
	files []jsonFile
	stats Stats
}

// NewJSONReporter creates a JSONReporter writing to w. The run is timed from
// this call.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return newJSONReporter(w, time.Now)
}

func newJSONReporter(w io.Writer, now func() time.Time) *JSONReporter {
	return &JSONReporter{w: w, now: now, start: now()}
}

type jsonFile struct {
	Path    string   `json:"path"`
	Rules   []string `json:"rules"`
	Success bool     `json:"success"`
	Skipped bool     `json:"skipped"`
	Changed bool     `json:"changed"`
	Output  string   `json:"output,omitempty"`
}

type jsonOutput struct {
	StartTime string     `json:"startTime"`
	EndTime   string     `json:"endTime"`
	Duration  string     `json:"duration"`
	Success   bool       `json:"success"`
	Stats     Stats      `json:"stats"`
	Files     []jsonFile `json:"files"`
}

func (jr *JSONReporter) Report(r executor.Report) error {
	jr.stats.add(r)
	rules := r.Rules
	if rules == nil {
		rules = []string{}
	}
	jr.files = append(jr.files, jsonFile{
		Path:    r.Path,
		Rules:   rules,
		Success: r.Success,
		Skipped: r.Skipped,
		Changed: r.Changed,
		Output:  r.Text,
	})
	return nil
}

// Close writes the document with files sorted by path.
func (jr *JSONReporter) Close() error {
	end := jr.now()
	files := jr.files
	if files == nil {
		files = []jsonFile{}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	out := jsonOutput{
		StartTime: jr.start.Format(time.RFC3339),
		EndTime:   end.Format(time.RFC3339),
		Duration:  end.Sub(jr.start).String(),
		Success:   jr.stats.Failed == 0,
		Stats:     jr.stats,
		Files:     files,
	}

	enc := json.NewEncoder(jr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
