// Package app wires the configuration, walker and output consumers into
// the gitree command.
package app

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/bethropolis/gitree/internal/archive"
	"github.com/bethropolis/gitree/internal/clipboard"
	"github.com/bethropolis/gitree/internal/config"
	"github.com/bethropolis/gitree/internal/export"
	"github.com/bethropolis/gitree/internal/logger"
	"github.com/bethropolis/gitree/internal/picker"
	"github.com/bethropolis/gitree/internal/printer"
	"github.com/bethropolis/gitree/internal/summary"
	"github.com/bethropolis/gitree/internal/walker"
)

// App runs one invocation: resolve roots, traverse each, feed the
// requested consumers.
type App struct {
	cfg *config.Config
	log *logger.Logger
}

// New creates an App from a validated configuration.
func New(cfg *config.Config) *App {
	color.NoColor = !cfg.UseColors

	log := logger.New(os.Stderr, cfg.Verbose, cfg.UseColors)
	if cfg.Quiet {
		log.WithLevel(logger.LevelWarn)
	}
	if cfg.LogLevel != "" {
		log.SetLevel(cfg.LogLevel)
	}
	return &App{cfg: cfg, log: log}
}

// Run executes the configured invocation.
func (a *App) Run() error {
	roots, err := resolveRoots(a.cfg.Paths)
	if err != nil {
		return err
	}

	if a.cfg.ZipPath != "" {
		return a.runZip(roots)
	}

	out := io.Writer(os.Stdout)
	if a.cfg.OutputFile != "" {
		f, err := os.Create(a.cfg.OutputFile)
		if err != nil {
			return fmt.Errorf("app: create output file %q: %w", a.cfg.OutputFile, err)
		}
		defer f.Close()
		out = f
	}

	var captured *bytes.Buffer
	if a.cfg.CopyToClipboard {
		captured = &bytes.Buffer{}
		out = io.MultiWriter(out, captured)
	}

	var lastCtx *walker.Context
	for i, root := range roots {
		whitelist, skip := a.whitelistFor(root)
		if skip {
			continue
		}
		ctx := a.cfg.TraversalContext(root, whitelist)
		lastCtx = ctx

		if i > 0 {
			fmt.Fprintln(out)
		}
		if len(roots) > 1 {
			fmt.Fprintf(out, "=== %s ===\n", root)
		}
		a.printTree(out, ctx)
	}

	if a.cfg.ExportPath != "" && lastCtx != nil {
		if err := a.export(lastCtx); err != nil {
			return err
		}
	}
	if a.cfg.OutputFile != "" {
		a.log.Info("output written to %s", a.cfg.OutputFile)
	}
	if captured != nil {
		if err := clipboard.Copy(captured.String()); err != nil {
			a.log.Warn("app: clipboard copy failed: %v", err)
		} else {
			a.log.Info("output copied to clipboard")
		}
	}
	return nil
}

// printTree renders one root. File roots print as a single line; the
// summary rides along on the same walk.
func (a *App) printTree(out io.Writer, ctx *walker.Context) {
	info, err := os.Stat(ctx.Root)
	if err == nil && !info.IsDir() {
		fmt.Fprintln(out, filepath.Base(ctx.Root))
		return
	}

	p := printer.New(out).
		WithColors(a.cfg.UseColors).
		WithIcons(a.cfg.Icons)
	p.Root(ctx.Root)

	counts := &summary.Collector{}
	walker.Walk(ctx, summary.Tee{p, counts}, walker.WithLogger(a.log))

	if len(ctx.IncludePatterns) > 0 && counts.Files == 0 && !ctx.NoFiles {
		a.log.Warn("no files matched include patterns: %s", strings.Join(ctx.IncludePatterns, ", "))
	}
	if a.cfg.ShowSummary {
		fmt.Fprintln(out)
		fmt.Fprintln(out, counts.String())
	}
}

// export snapshots the last root on a fresh walk and writes it in the
// configured format.
func (a *App) export(ctx *walker.Context) error {
	b := export.NewBuilder(ctx.Root,
		export.WithContents(!a.cfg.NoContents),
		export.WithoutContentsFor(a.cfg.NoContentsFor),
		export.WithBuilderLogger(a.log),
	)
	walker.Walk(ctx, b, walker.WithLogger(a.log))

	if err := export.Write(a.cfg.ExportPath, b.Tree(), a.cfg.Format, !a.cfg.NoContents); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	a.log.Info("tree exported to %s", a.cfg.ExportPath)
	return nil
}

// runZip archives every root into a single zip file. With several roots,
// each directory root's files are nested under its base name.
func (a *App) runZip(roots []string) error {
	f, err := os.Create(a.cfg.ZipPath)
	if err != nil {
		return fmt.Errorf("app: create archive %q: %w", a.cfg.ZipPath, err)
	}
	defer f.Close()

	arch := archive.NewArchiver(f, a.log)
	for _, root := range roots {
		whitelist, skip := a.whitelistFor(root)
		if skip {
			continue
		}
		ctx := a.cfg.TraversalContext(root, whitelist)

		prefix := ""
		if len(roots) > 1 {
			if info, err := os.Stat(root); err == nil && info.IsDir() {
				prefix = filepath.Base(root)
			}
		}
		arch.AddRoot(ctx, prefix)
	}
	if err := arch.Close(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	a.log.Info("created archive %s", a.cfg.ZipPath)
	return nil
}

// whitelistFor runs the interactive selection for one root. skip is true
// when the user deselected everything or nothing was there to select.
func (a *App) whitelistFor(root string) (map[string]struct{}, bool) {
	if !a.cfg.Interactive {
		return nil, false
	}
	candidates := picker.Collect(a.cfg.TraversalContext(root, nil), a.log)
	if len(candidates) == 0 {
		a.log.Warn("no selectable files under %s", root)
		return nil, true
	}
	whitelist := picker.Select(root, candidates, os.Stdin, os.Stderr)
	if len(whitelist) == 0 {
		a.log.Warn("nothing selected under %s, skipping", root)
		return nil, true
	}
	return whitelist, false
}

// resolveRoots expands glob patterns and verifies every root exists before
// any traversal starts.
func resolveRoots(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	var roots []string
	for _, p := range paths {
		if strings.ContainsAny(p, "*?[") {
			matches, err := filepath.Glob(p)
			if err != nil {
				return nil, fmt.Errorf("app: bad glob %q: %w", p, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("app: no paths match %q", p)
			}
			roots = append(roots, matches...)
			continue
		}
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("app: cannot access %q: %w", p, err)
		}
		roots = append(roots, p)
	}
	for i, r := range roots {
		roots[i] = filepath.Clean(r)
	}
	return roots, nil
}
