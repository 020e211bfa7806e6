package formatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	isDuplicate := func(err error) bool {
		var target *DuplicateRuleError
		return errors.As(err, &target)
	}
	isInvalidRule := func(err error) bool {
		var target *InvalidRuleError
		return errors.As(err, &target)
	}
	isInvalidPattern := func(err error) bool {
		var target *InvalidPatternError
		return errors.As(err, &target)
	}

	valid := Rule{ID: "fmt", Commands: []CommandTemplate{{"fmt", PathPlaceholder}}, Include: []string{"*.x"}}

	tests := []struct {
		name    string
		rules   []Rule
		wantErr func(error) bool
		errStr  string
	}{
		{
			name:  "valid",
			rules: []Rule{valid},
		},
		{
			name:    "duplicate id",
			rules:   []Rule{valid, valid},
			wantErr: isDuplicate,
			errStr:  `formatter "fmt" is registered more than once`,
		},
		{
			name:    "empty id",
			rules:   []Rule{{Commands: valid.Commands, Include: valid.Include}},
			wantErr: isInvalidRule,
			errStr:  "invalid formatter: id must not be empty",
		},
		{
			name:    "no include",
			rules:   []Rule{{ID: "x", Commands: valid.Commands}},
			wantErr: isInvalidRule,
			errStr:  "at least one include pattern is required",
		},
		{
			name:    "no commands",
			rules:   []Rule{{ID: "x", Include: valid.Include}},
			wantErr: isInvalidRule,
			errStr:  "at least one command is required",
		},
		{
			name:    "empty command",
			rules:   []Rule{{ID: "x", Include: valid.Include, Commands: []CommandTemplate{{}}}},
			wantErr: isInvalidRule,
			errStr:  "command 0 is empty",
		},
		{
			name:    "bad include pattern",
			rules:   []Rule{{ID: "x", Include: []string{"[a-"}, Commands: valid.Commands}},
			wantErr: isInvalidPattern,
			errStr:  "invalid glob pattern '[a-'",
		},
		{
			name:    "bad exclude pattern",
			rules:   []Rule{{ID: "x", Include: valid.Include, Exclude: []string{"[a-"}, Commands: valid.Commands}},
			wantErr: isInvalidPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := NewRegistry(tt.rules...)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Len(t, r.Rules(), len(tt.rules))
				return
			}
			require.Error(t, err)
			assert.True(t, tt.wantErr(err), "unexpected error type: %T", err)
			if tt.errStr != "" {
				assert.ErrorContains(t, err, tt.errStr)
			}
		})
	}
}

func TestRegistry_IsolatedFromCaller(t *testing.T) {
	t.Parallel()

	rules := []Rule{{ID: "a", Commands: []CommandTemplate{{"a", PathPlaceholder}}, Include: []string{"*.a"}}}
	r, err := NewRegistry(rules...)
	require.NoError(t, err)

	rules[0].Include[0] = "*.b"
	rules[0].Commands[0][0] = "changed"

	got := r.Rules()
	assert.Equal(t, []string{"*.a"}, got[0].Include)
	assert.Equal(t, "a", got[0].Commands[0][0])

	got[0].ID = "mutated"
	assert.Equal(t, []string{"a"}, r.IDs())
}

func TestRegistry_Classify(t *testing.T) {
	t.Parallel()

	r := NewDefaultRegistry()

	tests := []struct {
		name      string
		path      string
		wantIDs   []string
		wantFirst []string
	}{
		{
			name:      "python runs isort then black",
			path:      "tools/a.py",
			wantIDs:   []string{"isort", "black"},
			wantFirst: []string{"isort", "--quiet", PathPlaceholder},
		},
		{
			name:      "cpp uses clang-format",
			path:      "src/b.cpp",
			wantIDs:   []string{"clang-format"},
			wantFirst: []string{"clang-format", "-i", "-style=file", PathPlaceholder},
		},
		{
			name:      "shader uses clang-format",
			path:      "shaders/x.frag",
			wantIDs:   []string{"clang-format"},
			wantFirst: []string{"clang-format", "-i", "-style=file", PathPlaceholder},
		},
		{
			name:      "javascript uses prettier",
			path:      "web/app.js",
			wantIDs:   []string{"prettier"},
			wantFirst: []string{"prettier", "--write", PathPlaceholder},
		},
		{
			name: "minified javascript is excluded",
			path: "web/app.min.js",
		},
		{
			name: "unknown extension",
			path: "README.rst",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := r.Classify(tt.path)
			assert.Equal(t, tt.path, p.Path)
			assert.Equal(t, tt.wantIDs, p.RuleIDs)
			if tt.wantFirst == nil {
				assert.True(t, p.Empty())
				return
			}
			require.False(t, p.Empty())
			assert.Equal(t, CommandTemplate(tt.wantFirst), p.Commands[0])
		})
	}
}

func TestRegistry_ClassifyExcludeWins(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(Rule{
		ID:       "js",
		Commands: []CommandTemplate{{"js", PathPlaceholder}},
		Include:  []string{"*.js"},
		Exclude:  []string{"*.min.*"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"js"}, r.Classify("app.js").RuleIDs)
	assert.True(t, r.Classify("app.min.js").Empty())
}

func TestRegistry_ClassifyDeterministic(t *testing.T) {
	t.Parallel()

	r := NewDefaultRegistry()
	first := r.Classify("pkg/mod.py")
	for range 20 {
		assert.Equal(t, first, r.Classify("pkg/mod.py"))
	}
}

func TestPlan_Expand(t *testing.T) {
	t.Parallel()

	p := Plan{
		Path:    "a.py",
		RuleIDs: []string{"one", "two"},
		Commands: []CommandTemplate{
			{"one", PathPlaceholder},
			{"two", "--file=" + PathPlaceholder, "-q"},
		},
	}

	got := p.Expand("/tmp/x/a.py")
	assert.Equal(t, [][]string{
		{"one", "/tmp/x/a.py"},
		{"two", "--file=/tmp/x/a.py", "-q"},
	}, got)
	assert.Equal(t, CommandTemplate{"one", PathPlaceholder}, p.Commands[0], "expansion must not mutate the plan")
	assert.Equal(t, "one, two", p.Describe())
}

func TestDefaultRules(t *testing.T) {
	t.Parallel()

	r := NewDefaultRegistry()
	assert.Equal(t, []string{"clang-format", "isort", "black", "prettier"}, r.IDs())
}
