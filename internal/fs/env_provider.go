// Package fs holds the filesystem helpers used while formatting: environment
// access, byte-level file comparison and the per-file scratch workspace.
package fs

import (
	"os"
)

// EnvProvider provides environment variable access.
type EnvProvider interface {
	// Get returns the value of the environment variable named by the key.
	Get(key string) string
}

// OSEnvProvider reads from the process environment.
type OSEnvProvider struct{}

// NewEnvProvider creates a new OSEnvProvider.
func NewEnvProvider() *OSEnvProvider {
	return &OSEnvProvider{}
}

// Get returns the value of the environment variable named by the key.
func (e *OSEnvProvider) Get(key string) string {
	return os.Getenv(key)
}

// MapEnvProvider serves variables from a fixed map. The zero value has no variables.
type MapEnvProvider map[string]string

// Get returns the value stored under key, or "" if there is none.
func (m MapEnvProvider) Get(key string) string {
	return m[key]
}
