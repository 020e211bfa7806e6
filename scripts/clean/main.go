// Package main removes build and test artefacts, and any scratch directories
// left behind by an interrupted repofmt run.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	repofs "github.com/andyballingall/repofmt/internal/fs"
)

func main() {
	cleanDirs([]string{"bin", "dist"})
	cleanPatterns([]string{"coverage*", "*.out", "*.test", "*.coverprofile", "profile.cov"})
	cleanScratch(".")
}

func cleanDirs(dirs []string) {
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			_, _ = fmt.Printf("❌ Failed to remove dir %s: %v\n", dir, err)
		} else {
			_, _ = fmt.Printf("✅ Removed dir %s\n", dir)
		}
	}
}

func cleanPatterns(patterns []string) {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			_, _ = fmt.Printf("❌ Failed to glob pattern %s: %v\n", pattern, err)
			continue
		}
		for _, match := range matches {
			if rErr := os.Remove(match); rErr != nil {
				_, _ = fmt.Printf("❌ Failed to remove matched file %s: %v\n", match, rErr)
			} else {
				_, _ = fmt.Printf("✅ Removed matched file %s\n", match)
			}
		}
	}
}

func cleanScratch(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" || d.Name() == "_examples" {
			return filepath.SkipDir
		}
		if !strings.HasPrefix(d.Name(), repofs.ScratchPrefix) {
			return nil
		}
		if rErr := os.RemoveAll(path); rErr != nil {
			_, _ = fmt.Printf("❌ Failed to remove scratch dir %s: %v\n", path, rErr)
		} else {
			_, _ = fmt.Printf("✅ Removed scratch dir %s\n", path)
		}
		return filepath.SkipDir
	})
}
