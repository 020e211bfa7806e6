package executor

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/pterm/pterm"
)

const diffContext = 3

// UnifiedDiff compares the original file with its formatted copy. label names
// both sides of the diff. An empty result means the files are byte-identical.
func UnifiedDiff(original, formatted, label string, colour bool) (string, error) {
	a, err := os.ReadFile(original)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", original, err)
	}
	b, err := os.ReadFile(formatted)
	if err != nil {
		return "", fmt.Errorf("failed to read formatted copy of %s: %w", label, err)
	}
	if bytes.Equal(a, b) {
		return "", nil
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: "a/" + label,
		ToFile:   "b/" + label,
		Context:  diffContext,
	})
	if err != nil {
		return "", fmt.Errorf("failed to diff %s: %w", label, err)
	}
	if text == "" {
		// Differences the line splitter cannot show, such as a lone trailing newline.
		return fmt.Sprintf("Files a/%s and b/%s differ\n", label, label), nil
	}

	if colour {
		text = colourDiff(text)
	}
	return text, nil
}

func colourDiff(text string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			body = pterm.Bold.Sprint(body)
		case strings.HasPrefix(body, "@@"):
			body = pterm.FgCyan.Sprint(body)
		case strings.HasPrefix(body, "+"):
			body = pterm.FgGreen.Sprint(body)
		case strings.HasPrefix(body, "-"):
			body = pterm.FgRed.Sprint(body)
		}
		b.WriteString(body)
		if strings.HasSuffix(line, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
