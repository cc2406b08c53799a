package ignore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/gitree/internal/ignore"
)

func TestParseRules(t *testing.T) {
	content := `
# build artifacts
*.pyc
build/

!important.pyc

/dist
`
	rules := ignore.ParseRules(content, "")
	require.Len(t, rules, 4)

	set := ignore.NewRuleSet(rules...)
	assert.True(t, set.Match("mod.pyc", false))
	assert.True(t, set.Match("build", true))
	assert.False(t, set.Match("important.pyc", false))
	assert.True(t, set.Match("dist", true))
	assert.False(t, set.Match("README.md", false), "comments and blanks contribute nothing")
}

func TestParseRulesPrefixedByOrigin(t *testing.T) {
	rules := ignore.ParseRules("*.pyc\n!keep.pyc\n", "src")
	set := ignore.NewRuleSet(rules...)

	assert.True(t, set.Match("src/mod.pyc", false), "rule applies under its directory")
	assert.False(t, set.Match("lib/mod.pyc", false), "rule is scoped to its directory")
	assert.False(t, set.Match("src/keep.pyc", false), "negation survives the rewrite")
	assert.Equal(t, "src", rules[0].Origin)
}

func TestParseRulesAnchoredByOrigin(t *testing.T) {
	// A root-anchored pattern in src/.gitignore anchors under src/.
	rules := ignore.ParseRules("/out\n", "src")
	set := ignore.NewRuleSet(rules...)

	assert.True(t, set.Match("src/out", true))
	assert.False(t, set.Match("out", true))
	assert.False(t, set.Match("src/deep/out", true))
}

func TestAccumulatorWithinDepth(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		maxDepth int
		depth    int
		want     bool
	}{
		{name: "Disabled", enabled: false, maxDepth: -1, depth: 0, want: false},
		{name: "Unbounded", enabled: true, maxDepth: -1, depth: 42, want: true},
		{name: "ZeroDisablesRoot", enabled: true, maxDepth: 0, depth: 0, want: false},
		{name: "BelowCutoff", enabled: true, maxDepth: 2, depth: 1, want: true},
		{name: "AtCutoff", enabled: true, maxDepth: 2, depth: 2, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := ignore.NewAccumulator(tt.enabled, tt.maxDepth, nil)
			assert.Equal(t, tt.want, acc.WithinDepth(tt.depth))
		})
	}
}

func TestAccumulatorExtend(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gitignore"), "*.log\n")

	acc := ignore.NewAccumulator(true, -1, nil)
	inherited := ignore.NewRuleSet()

	rules := acc.Extend(inherited, dir, "", 0)
	assert.Equal(t, 1, rules.Len())
	assert.True(t, rules.Match("debug.log", false))
	assert.Equal(t, 0, inherited.Len(), "inherited set untouched")
}

func TestAccumulatorExtendMissingFile(t *testing.T) {
	dir := t.TempDir()
	acc := ignore.NewAccumulator(true, -1, nil)
	inherited := ignore.NewRuleSet()

	assert.Same(t, inherited, acc.Extend(inherited, dir, "", 0))
}

func TestAccumulatorExtendPastCutoff(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gitignore"), "*.log\n")

	acc := ignore.NewAccumulator(true, 1, nil)
	inherited := ignore.NewRuleSet()

	assert.Same(t, inherited, acc.Extend(inherited, dir, "sub", 1), "no discovery at or past the cutoff")
	assert.NotSame(t, inherited, acc.Extend(inherited, dir, "", 0))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
