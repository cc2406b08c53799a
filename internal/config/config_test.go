package config_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/gitree/internal/config"
)

func load(t *testing.T, args ...string) *config.Config {
	t.Helper()
	flags := pflag.NewFlagSet("gitree", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	require.NoError(t, flags.Parse(append([]string{"--no-config"}, args...)))
	cfg, err := config.Load(flags)
	require.NoError(t, err)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := load(t)

	assert.Equal(t, -1, cfg.MaxDepth)
	assert.Equal(t, -1, cfg.GitignoreDepth)
	assert.Equal(t, -1, cfg.ExcludeDepth)
	assert.False(t, cfg.NoGitignore)
	assert.False(t, cfg.ShowHidden)
	assert.Equal(t, 0, cfg.MaxItems)
	assert.Equal(t, 0, cfg.MaxEntries)
	assert.Equal(t, "txt", cfg.Format)
	assert.NoError(t, cfg.Validate())
}

func TestFlagsOverrideDefaults(t *testing.T) {
	cfg := load(t,
		"--max-depth", "3",
		"--hidden-items",
		"--exclude", "*.tmp",
		"--include-file-types", "go,py",
		"--no-gitignore",
		"--files-first",
		"--format", "md",
	)

	assert.Equal(t, 3, cfg.MaxDepth)
	assert.True(t, cfg.ShowHidden)
	assert.Equal(t, []string{"*.tmp"}, cfg.Exclude)
	assert.Equal(t, []string{"go", "py"}, cfg.IncludeFileTypes)
	assert.True(t, cfg.NoGitignore)
	assert.True(t, cfg.FilesFirst)
	assert.Equal(t, "md", cfg.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "Defaults", mutate: func(c *config.Config) {}},
		{name: "BadMaxDepth", mutate: func(c *config.Config) { c.MaxDepth = -2 }, wantErr: true},
		{name: "BadGitignoreDepth", mutate: func(c *config.Config) { c.GitignoreDepth = -5 }, wantErr: true},
		{name: "BadExcludeDepth", mutate: func(c *config.Config) { c.ExcludeDepth = -2 }, wantErr: true},
		{name: "NegativeMaxItems", mutate: func(c *config.Config) { c.MaxItems = -1 }, wantErr: true},
		{name: "NegativeMaxEntries", mutate: func(c *config.Config) { c.MaxEntries = -1 }, wantErr: true},
		{name: "BadFormat", mutate: func(c *config.Config) { c.Format = "xml" }, wantErr: true},
		{name: "ZipAndExport", mutate: func(c *config.Config) {
			c.ZipPath = "out.zip"
			c.ExportPath = "out.json"
		}, wantErr: true},
		{name: "ZipAlone", mutate: func(c *config.Config) { c.ZipPath = "out.zip" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOutputPathExtensions(t *testing.T) {
	cfg := load(t, "--export", "tree", "--format", "json")
	assert.Equal(t, "tree.json", cfg.ExportPath)

	cfg = load(t, "--export", "tree.custom")
	assert.Equal(t, "tree.custom", cfg.ExportPath)

	cfg = load(t, "--zip", "bundle")
	assert.Equal(t, "bundle.zip", cfg.ZipPath)

	cfg = load(t, "--output", "dump")
	assert.Equal(t, "dump.txt", cfg.OutputFile)
}

func TestTraversalContext(t *testing.T) {
	cfg := load(t,
		"--max-depth", "2",
		"--no-gitignore",
		"--max-entries", "50",
		"--exclude", "*.tmp",
	)

	ctx := cfg.TraversalContext("/some/root", nil)
	assert.Equal(t, "/some/root", ctx.Root)
	assert.Equal(t, 2, ctx.MaxDepth)
	assert.False(t, ctx.RespectGitignore)
	assert.Equal(t, 50, ctx.MaxTotalEntries)
	assert.Equal(t, []string{"*.tmp"}, ctx.ExcludePatterns)
	assert.Nil(t, ctx.Whitelist)
}

func TestTraversalContextNoMaxEntries(t *testing.T) {
	cfg := load(t, "--max-entries", "50", "--no-max-entries")
	ctx := cfg.TraversalContext("/root", nil)
	assert.Equal(t, 0, ctx.MaxTotalEntries)
}

func TestTraversalContextWhitelist(t *testing.T) {
	cfg := load(t)
	whitelist := map[string]struct{}{"/root/a.go": {}}
	ctx := cfg.TraversalContext("/root", whitelist)
	assert.Equal(t, whitelist, ctx.Whitelist)
}
