package formatter

// DefaultRules returns the built-in formatter table. Order matters: isort runs
// before black on Python files.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:       "clang-format",
			Commands: []CommandTemplate{{"clang-format", "-i", "-style=file", PathPlaceholder}},
			Include: []string{
				"*.h", "*.c", "*.cc", "*.cxx", "*.cpp", "*.hpp", "*.ipp",
				"*.frag", "*.glsl", "*.vert", "*.proto",
			},
		},
		{
			ID:       "isort",
			Commands: []CommandTemplate{{"isort", "--quiet", PathPlaceholder}},
			Include:  []string{"*.py"},
		},
		{
			ID:       "black",
			Commands: []CommandTemplate{{"black", "--quiet", PathPlaceholder}},
			Include:  []string{"*.py"},
		},
		{
			ID:       "prettier",
			Commands: []CommandTemplate{{"prettier", "--write", PathPlaceholder}},
			Include: []string{
				"*.js", "*.jsx", "*.ts", "*.tsx", "*.json", "*.css", "*.scss",
				"*.html", "*.md", "*.yaml", "*.yml",
			},
			Exclude: []string{"*.min.*"},
		},
	}
}

// NewDefaultRegistry returns a Registry built from DefaultRules.
func NewDefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultRules()...)
	if err != nil {
		// The built-in table is static; failing here is a programming error.
		panic(err)
	}
	return r
}
