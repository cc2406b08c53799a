// Package config holds the application configuration: flag registration,
// config-file merging and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bethropolis/gitree/internal/walker"
)

// Config holds all application settings after flags and the optional
// config file have been merged.
type Config struct {
	// Roots
	Paths []string

	// Listing settings
	MaxDepth         int
	ShowHidden       bool
	Exclude          []string
	ExcludeDepth     int
	Include          []string
	IncludeFileTypes []string
	NoGitignore      bool
	GitignoreDepth   int
	MaxItems         int
	MaxEntries       int
	NoMaxEntries     bool
	NoFiles          bool
	FilesFirst       bool

	// Output settings
	Icons           bool
	NoColor         bool
	CopyToClipboard bool
	Interactive     bool
	ZipPath         string
	ExportPath      string
	Format          string
	NoContents      bool
	NoContentsFor   []string
	ShowSummary     bool
	OutputFile      string

	// Logging settings
	Verbose  bool
	Quiet    bool
	LogLevel string

	// Config file handling
	NoConfig bool

	// Computed
	UseColors bool

	// Version info
	Version string
}

// Default returns the built-in defaults: no limits, gitignore on, plain
// tree output.
func Default() *Config {
	return &Config{
		MaxDepth:       -1,
		GitignoreDepth: -1,
		ExcludeDepth:   -1,
		Format:         "txt",
		Version:        "1.0.0",
	}
}

// RegisterFlags declares every CLI flag with the built-in defaults, so the
// flag set is the single source of truth viper merges the config file
// under.
func RegisterFlags(flags *pflag.FlagSet) {
	d := Default()

	flags.Int("max-depth", d.MaxDepth, "Maximum depth to traverse (-1 = unlimited)")
	flags.Bool("hidden-items", d.ShowHidden, "Show hidden files and directories")
	flags.StringSlice("exclude", nil, "Patterns of files to exclude")
	flags.Int("exclude-depth", d.ExcludeDepth, "Depth limit for exclude patterns (-1 = unlimited)")
	flags.StringSlice("include", nil, "Patterns of files to include")
	flags.StringSlice("include-file-types", nil, "Include files of certain types (extensions)")
	flags.Bool("no-gitignore", d.NoGitignore, "Ignore .gitignore rules")
	flags.Int("gitignore-depth", d.GitignoreDepth, "Limit depth for .gitignore processing (-1 = unlimited)")
	flags.Int("max-items", d.MaxItems, "Limit items shown per directory (0 = unlimited)")
	flags.Int("max-entries", d.MaxEntries, "Limit entries shown in tree output (0 = unlimited)")
	flags.Bool("no-max-entries", d.NoMaxEntries, "Disable the max entries limit")
	flags.Bool("no-files", d.NoFiles, "Hide files (only directories)")
	flags.Bool("files-first", d.FilesFirst, "Print files before directories")

	flags.Bool("icons", d.Icons, "Show file and directory icons")
	flags.Bool("no-color", d.NoColor, "Disable color output")
	flags.BoolP("copy", "c", d.CopyToClipboard, "Copy output to clipboard")
	flags.BoolP("interactive", "i", d.Interactive, "Interactively pick the files to include")
	flags.StringP("zip", "z", d.ZipPath, "Create a zip archive of the given paths")
	flags.String("export", d.ExportPath, "Save the tree structure to a file")
	flags.String("format", d.Format, "Export format: txt, json or md")
	flags.Bool("no-contents", d.NoContents, "Don't include file contents in exports")
	flags.StringSlice("no-contents-for", nil, "Exclude contents for specific files")
	flags.Bool("summary", d.ShowSummary, "Append directory/file counts")
	flags.StringP("output", "o", d.OutputFile, "Write output to a file instead of stdout")

	flags.Bool("verbose", d.Verbose, "Enable verbose logging")
	flags.BoolP("quiet", "q", d.Quiet, "Suppress INFO messages")
	flags.String("log-level", d.LogLevel, "Set the logging level (debug, info, warn, error)")

	flags.Bool("init-config", false, "Create a default config file and exit")
	flags.Bool("no-config", d.NoConfig, "Ignore the config file and use defaults")
}

// Load merges the optional config file under the parsed flags: an
// explicitly set flag always wins, a config-file value beats the built-in
// default.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigName("gitree")
	v.SetConfigType("json")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "gitree"))
	}
	v.AddConfigPath(".")

	noConfig, _ := flags.GetBool("no-config")
	if !noConfig {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read config file: %w", err)
			}
		}
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("config: bind flags: %w", err)
	}

	c := Default()
	c.MaxDepth = v.GetInt("max-depth")
	c.ShowHidden = v.GetBool("hidden-items")
	c.Exclude = v.GetStringSlice("exclude")
	c.ExcludeDepth = v.GetInt("exclude-depth")
	c.Include = v.GetStringSlice("include")
	c.IncludeFileTypes = v.GetStringSlice("include-file-types")
	c.NoGitignore = v.GetBool("no-gitignore")
	c.GitignoreDepth = v.GetInt("gitignore-depth")
	c.MaxItems = v.GetInt("max-items")
	c.MaxEntries = v.GetInt("max-entries")
	c.NoMaxEntries = v.GetBool("no-max-entries")
	c.NoFiles = v.GetBool("no-files")
	c.FilesFirst = v.GetBool("files-first")
	c.Icons = v.GetBool("icons")
	c.NoColor = v.GetBool("no-color")
	c.CopyToClipboard = v.GetBool("copy")
	c.Interactive = v.GetBool("interactive")
	c.ZipPath = v.GetString("zip")
	c.ExportPath = v.GetString("export")
	c.Format = v.GetString("format")
	c.NoContents = v.GetBool("no-contents")
	c.NoContentsFor = v.GetStringSlice("no-contents-for")
	c.ShowSummary = v.GetBool("summary")
	c.OutputFile = v.GetString("output")
	c.Verbose = v.GetBool("verbose")
	c.Quiet = v.GetBool("quiet")
	c.LogLevel = v.GetString("log-level")
	c.NoConfig = noConfig

	c.normalizeOutputPaths()
	c.UseColors = !c.NoColor && isatty.IsTerminal(os.Stderr.Fd()) && c.OutputFile == ""
	return c, nil
}

// normalizeOutputPaths gives extension-less output paths the extension the
// chosen format implies.
func (c *Config) normalizeOutputPaths() {
	formatExt := map[string]string{"txt": ".txt", "json": ".json", "md": ".md"}

	if c.ExportPath != "" && filepath.Ext(c.ExportPath) == "" {
		if ext, ok := formatExt[c.Format]; ok {
			c.ExportPath += ext
		}
	}
	if c.ZipPath != "" && filepath.Ext(c.ZipPath) == "" {
		c.ZipPath += ".zip"
	}
	if c.OutputFile != "" && filepath.Ext(c.OutputFile) == "" {
		c.OutputFile += ".txt"
	}
}

// Validate rejects configuration faults before any traversal starts. The
// engine assumes a validated Context and does not re-check.
func (c *Config) Validate() error {
	if c.MaxDepth < -1 {
		return fmt.Errorf("config: --max-depth must be -1 (unlimited) or greater, got %d", c.MaxDepth)
	}
	if c.GitignoreDepth < -1 {
		return fmt.Errorf("config: --gitignore-depth must be -1 (unlimited) or greater, got %d", c.GitignoreDepth)
	}
	if c.ExcludeDepth < -1 {
		return fmt.Errorf("config: --exclude-depth must be -1 (unlimited) or greater, got %d", c.ExcludeDepth)
	}
	if c.MaxItems < 0 {
		return fmt.Errorf("config: --max-items must be positive, got %d", c.MaxItems)
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("config: --max-entries must be positive, got %d", c.MaxEntries)
	}
	if _, ok := map[string]bool{"txt": true, "json": true, "md": true}[c.Format]; !ok {
		return fmt.Errorf("config: --format must be txt, json or md, got %q", c.Format)
	}
	if c.ZipPath != "" && c.ExportPath != "" {
		return errors.New("config: --zip and --export are mutually exclusive")
	}
	return nil
}

// TraversalContext maps the configuration onto the walker's context for
// one root.
func (c *Config) TraversalContext(root string, whitelist map[string]struct{}) *walker.Context {
	maxEntries := c.MaxEntries
	if c.NoMaxEntries {
		maxEntries = 0
	}
	return &walker.Context{
		Root:             root,
		MaxDepth:         c.MaxDepth,
		ShowHidden:       c.ShowHidden,
		RespectGitignore: !c.NoGitignore,
		GitignoreDepth:   c.GitignoreDepth,
		ExcludePatterns:  c.Exclude,
		ExcludeDepth:     c.ExcludeDepth,
		IncludePatterns:  c.Include,
		IncludeFileTypes: c.IncludeFileTypes,
		NoFiles:          c.NoFiles,
		MaxItemsPerDir:   c.MaxItems,
		MaxTotalEntries:  maxEntries,
		FilesFirst:       c.FilesFirst,
		Whitelist:        whitelist,
	}
}

// defaultConfigJSON is written by --init-config.
const defaultConfigJSON = `{
  "hidden-items": false,
  "no-gitignore": false,
  "max-depth": -1,
  "max-items": 0,
  "max-entries": 0,
  "icons": false,
  "files-first": false,
  "format": "txt"
}
`

// InitFile writes a default config file into the user config directory and
// returns its path. An existing file is left alone.
func InitFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate config directory: %w", err)
	}
	dir = filepath.Join(dir, "gitree")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("config: create %q: %w", dir, err)
	}
	path := filepath.Join(dir, "gitree.json")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.WriteFile(path, []byte(defaultConfigJSON), 0o644); err != nil {
		return "", fmt.Errorf("config: write %q: %w", path, err)
	}
	return path, nil
}
