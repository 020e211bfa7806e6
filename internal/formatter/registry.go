// Package formatter maps repository paths to the ordered chain of external
// formatter commands that apply to them.
package formatter

import (
	"fmt"
	"strings"
)

// PathPlaceholder is replaced by the working file path when a command is expanded.
const PathPlaceholder = "{path}"

// CommandTemplate is a single command line. Any argument may contain PathPlaceholder.
type CommandTemplate []string

// Expand returns a copy of the template with PathPlaceholder replaced by path.
func (c CommandTemplate) Expand(path string) []string {
	args := make([]string, len(c))
	for i, arg := range c {
		args[i] = strings.ReplaceAll(arg, PathPlaceholder, path)
	}
	return args
}

// Rule describes one formatter: how to invoke it and which paths it applies to.
// A path matches a rule iff it matches at least one Include pattern and no Exclude pattern.
type Rule struct {
	ID       string
	Commands []CommandTemplate
	Include  []string
	Exclude  []string
}

// Matches reports whether the rule applies to path.
func (r *Rule) Matches(path string) bool {
	return MatchAny(r.Include, path) && !MatchAny(r.Exclude, path)
}

func (r *Rule) validate() error {
	if r.ID == "" {
		return &InvalidRuleError{Reason: "id must not be empty"}
	}
	if len(r.Include) == 0 {
		return &InvalidRuleError{ID: r.ID, Reason: "at least one include pattern is required"}
	}
	if len(r.Commands) == 0 {
		return &InvalidRuleError{ID: r.ID, Reason: "at least one command is required"}
	}
	for i, c := range r.Commands {
		if len(c) == 0 || c[0] == "" {
			return &InvalidRuleError{ID: r.ID, Reason: fmt.Sprintf("command %d is empty", i)}
		}
	}
	for _, p := range append(append([]string{}, r.Include...), r.Exclude...) {
		if !ValidPattern(p) {
			return &InvalidPatternError{ID: r.ID, Pattern: p}
		}
	}
	return nil
}

// Registry is an ordered, read-only collection of formatter rules.
// Registration order is significant: the commands of all matching rules run as a
// pipeline, each one operating on the output of the previous.
type Registry struct {
	rules []Rule
}

// NewRegistry validates the given rules and returns a Registry holding them in order.
// Duplicate IDs are rejected.
func NewRegistry(rules ...Rule) (*Registry, error) {
	seen := make(map[string]struct{}, len(rules))
	owned := make([]Rule, 0, len(rules))

	for i := range rules {
		r := rules[i]
		if err := r.validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[r.ID]; ok {
			return nil, &DuplicateRuleError{ID: r.ID}
		}
		seen[r.ID] = struct{}{}
		owned = append(owned, cloneRule(r))
	}

	return &Registry{rules: owned}, nil
}

// Rules returns a copy of the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	for i := range r.rules {
		out[i] = cloneRule(r.rules[i])
	}
	return out
}

// IDs returns the rule identifiers in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.rules))
	for i := range r.rules {
		ids[i] = r.rules[i].ID
	}
	return ids
}

// Classify builds the Plan for path. A plan with no commands means no formatter applies.
func (r *Registry) Classify(path string) Plan {
	p := Plan{Path: path}
	for i := range r.rules {
		rule := &r.rules[i]
		if !rule.Matches(path) {
			continue
		}
		p.RuleIDs = append(p.RuleIDs, rule.ID)
		p.Commands = append(p.Commands, rule.Commands...)
	}
	return p
}

func cloneRule(r Rule) Rule {
	c := Rule{
		ID:      r.ID,
		Include: append([]string(nil), r.Include...),
		Exclude: append([]string(nil), r.Exclude...),
	}
	c.Commands = make([]CommandTemplate, len(r.Commands))
	for i, cmd := range r.Commands {
		c.Commands[i] = append(CommandTemplate(nil), cmd...)
	}
	return c
}
