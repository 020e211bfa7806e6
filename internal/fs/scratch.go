package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScratchPrefix starts the name of every scratch directory.
const ScratchPrefix = ".repofmt-"

// Scratch is a private directory placed next to a file being formatted, so the
// formatted copy lives on the same filesystem as the original and can replace it
// with a single rename.
type Scratch struct {
	dir string
}

// NewScratch creates a scratch directory inside dir.
// The caller must Close it on every path.
func NewScratch(dir string) (*Scratch, error) {
	if dir == "" {
		dir = "."
	}
	d, err := os.MkdirTemp(dir, ScratchPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory in %s: %w", dir, err)
	}
	return &Scratch{dir: d}, nil
}

// Dir returns the scratch directory path.
func (s *Scratch) Dir() string {
	return s.dir
}

// Stage copies src into the scratch directory under its own base name and
// returns the path of the copy.
func (s *Scratch) Stage(src string) (string, error) {
	dst := filepath.Join(s.dir, filepath.Base(src))
	if err := CopyFile(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// Close removes the scratch directory and everything in it.
func (s *Scratch) Close() error {
	return os.RemoveAll(s.dir)
}

// InScratch reports whether path lies inside a scratch directory.
func InScratch(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(part, ScratchPrefix) {
			return true
		}
	}
	return false
}
