package formatter

import "fmt"

type DuplicateRuleError struct {
	ID string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("formatter %q is registered more than once", e.ID)
}

type InvalidRuleError struct {
	ID     string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid formatter: %s", e.Reason)
	}
	return fmt.Sprintf("invalid formatter %q: %s", e.ID, e.Reason)
}

type InvalidPatternError struct {
	ID      string
	Pattern string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("formatter %q has invalid glob pattern '%s'", e.ID, e.Pattern)
}
