// Package config loads the optional .repofmt.yml file that overrides the
// built-in formatter table and run defaults.
package config

import (
	_ "embed"
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andyballingall/repofmt/internal/formatter"
	"github.com/andyballingall/repofmt/internal/repo"
	"github.com/andyballingall/repofmt/internal/validator"
)

// FileName is the config file looked up at the repository root.
const FileName = ".repofmt.yml"

const schemaID = "https://github.com/andyballingall/repofmt/config.schema.json"

//go:embed schema.json
var schemaJSON []byte

// DefaultConfigContent is written by "repofmt init". It describes the same
// formatters as the built-in table.
const DefaultConfigContent = `# repofmt configuration

# BASE
#
# The upstream reference used to find changed files when --all is not given.
base: origin/main

# JOBS
#
# Number of files formatted in parallel. 0 uses one worker per CPU.
jobs: 0

# FORMATTERS
#
# Formatters are applied in the order listed. When several match a file, their
# commands run one after the other on the same copy of the file. {path} is
# replaced by the path of that copy.
#
# A pattern without a "/" matches the file name, so "*.py" selects src/a.py.
# A pattern with a "/" matches the whole path relative to the repository root,
# and "**" crosses directories. A file matching any exclude pattern is skipped
# by that formatter.
formatters:
  - id: clang-format
    commands:
      - [clang-format, -i, -style=file, "{path}"]
    include: ["*.h", "*.c", "*.cc", "*.cxx", "*.cpp", "*.hpp", "*.ipp", "*.frag", "*.glsl", "*.vert", "*.proto"]

  - id: isort
    commands:
      - [isort, --quiet, "{path}"]
    include: ["*.py"]

  - id: black
    commands:
      - [black, --quiet, "{path}"]
    include: ["*.py"]

  - id: prettier
    commands:
      - [prettier, --write, "{path}"]
    include: ["*.js", "*.jsx", "*.ts", "*.tsx", "*.json", "*.css", "*.scss", "*.html", "*.md", "*.yaml", "*.yml"]
    exclude: ["*.min.*"]
`

// FormatterConfig is one entry of the formatters list.
type FormatterConfig struct {
	ID       string     `yaml:"id"`
	Commands [][]string `yaml:"commands"`
	Include  []string   `yaml:"include"`
	Exclude  []string   `yaml:"exclude"`
}

// Config holds the settings for a run.
type Config struct {
	Base       string            `yaml:"base"`
	Jobs       int               `yaml:"jobs"`
	Formatters []FormatterConfig `yaml:"formatters"`
	Path       string            `yaml:"-"` // set when the config was read from a file.
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{Base: repo.DefaultBase}
}

// Loader reads config files and checks them against the embedded schema.
type Loader struct {
	schema validator.Validator
}

// NewLoader compiles the config schema with compiler.
func NewLoader(compiler validator.Compiler) (*Loader, error) {
	doc, err := validator.UnmarshalJSON(schemaJSON)
	if err != nil {
		return nil, err
	}
	if err := compiler.AddSchema(schemaID, doc); err != nil {
		return nil, err
	}
	v, err := compiler.Compile(schemaID)
	if err != nil {
		return nil, err
	}
	return &Loader{schema: v}, nil
}

// Load reads and validates the config file at path.
func (l *Loader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &MissingConfigError{Path: path}
	}
	if err != nil {
		return nil, err
	}
	return l.Parse(path, data)
}

// Parse validates data against the config schema and decodes it. path is only
// used in error messages. An empty document yields the defaults.
func (l *Loader) Parse(path string, data []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}

	cfg := Default()
	cfg.Path = path
	if doc == nil {
		return cfg, nil
	}

	normalized, err := validator.Normalize(doc)
	if err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	if err := l.schema.Validate(normalized); err != nil {
		return nil, &InvalidConfigError{Path: path, Wrapped: err}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	if cfg.Base == "" {
		cfg.Base = repo.DefaultBase
	}

	if _, err := cfg.Registry(); err != nil {
		return nil, &InvalidConfigError{Path: path, Wrapped: err}
	}
	return cfg, nil
}

// Registry builds the formatter registry described by the config. The
// built-in table is used when no formatters are configured.
func (c *Config) Registry() (*formatter.Registry, error) {
	if len(c.Formatters) == 0 {
		return formatter.NewRegistry(formatter.DefaultRules()...)
	}

	rules := make([]formatter.Rule, 0, len(c.Formatters))
	for _, f := range c.Formatters {
		cmds := make([]formatter.CommandTemplate, 0, len(f.Commands))
		for _, cmd := range f.Commands {
			cmds = append(cmds, formatter.CommandTemplate(cmd))
		}
		rules = append(rules, formatter.Rule{
			ID:       f.ID,
			Commands: cmds,
			Include:  f.Include,
			Exclude:  f.Exclude,
		})
	}
	return formatter.NewRegistry(rules...)
}

// WriteDefault writes DefaultConfigContent to path. An existing file is never
// overwritten.
func WriteDefault(path string) error {
	//nolint:gosec // config file is meant to be committed and shared
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return &ConfigExistsError{Path: path}
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(DefaultConfigContent); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
