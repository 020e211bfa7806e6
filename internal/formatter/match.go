package formatter

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match reports whether p matches the shell-style glob pattern.
// Matching is case-sensitive. A pattern without a '/' is matched against the
// base name of p so that "*.py" selects "src/tools/a.py"; a pattern containing
// a '/' is matched against the whole slash-separated path, and "**" may be used
// to cross directory boundaries.
func Match(pattern, p string) bool {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")

	if !strings.Contains(pattern, "/") {
		p = path.Base(p)
	}

	ok, err := doublestar.Match(pattern, p)
	return err == nil && ok
}

// MatchAny reports whether p matches at least one of the patterns.
func MatchAny(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if Match(pattern, p) {
			return true
		}
	}
	return false
}

// ValidPattern reports whether pattern is a well-formed glob.
func ValidPattern(pattern string) bool {
	return pattern != "" && doublestar.ValidatePattern(pattern)
}
