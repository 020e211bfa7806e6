package formatter

import "strings"

// Plan is the formatter chain for a single file. It is built fresh for every
// file and never shared.
type Plan struct {
	Path     string
	RuleIDs  []string
	Commands []CommandTemplate
}

// Empty reports whether no formatter applies to the file.
func (p Plan) Empty() bool {
	return len(p.Commands) == 0
}

// Expand substitutes workPath into every command of the chain, preserving order.
func (p Plan) Expand(workPath string) [][]string {
	out := make([][]string, len(p.Commands))
	for i, c := range p.Commands {
		out[i] = c.Expand(workPath)
	}
	return out
}

// Describe returns the rule IDs as a comma separated list.
func (p Plan) Describe() string {
	return strings.Join(p.RuleIDs, ", ")
}
