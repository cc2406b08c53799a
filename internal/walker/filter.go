package walker

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danwakefield/fnmatch"

	"github.com/bethropolis/gitree/internal/ignore"
	"github.com/bethropolis/gitree/internal/utils"
)

// filterEntries applies the per-directory decision chain to a raw child
// list: hidden filter, gitignore rules, extra excludes, include override,
// no-files mode, then ordering and the per-directory cap. The whitelist is
// deliberately not applied here (see Context.Whitelist).
//
// Returns the visible entries in render order and the number of entries
// hidden by MaxItemsPerDir.
func filterEntries(raw []Entry, relDir string, depth int, rules *ignore.RuleSet, ctx *Context, log utils.Logger) ([]Entry, int) {
	hasIncludes := len(ctx.IncludePatterns) > 0 || len(ctx.IncludeFileTypes) > 0
	excludeActive := len(ctx.ExcludePatterns) > 0 && (ctx.ExcludeDepth < 0 || depth <= ctx.ExcludeDepth)

	var dirs, files []Entry
	for _, entry := range raw {
		rel := joinRel(relDir, entry.Name)
		included := hasIncludes && includeMatch(entry, rel, ctx)

		// Hidden filter. An explicit include match overrides it.
		if !ctx.ShowHidden && strings.HasPrefix(entry.Name, ".") && !included {
			log.Debug("walker: %q hidden", rel)
			continue
		}

		excluded := rules.Match(rel, entry.IsDir)
		if !excluded && excludeActive && matchesAnyExclude(entry.Name, rel, ctx.ExcludePatterns) {
			excluded = true
		}

		if entry.IsDir {
			if excluded {
				log.Debug("walker: %q excluded", rel)
				continue
			}
			// A directory only survives an include filter when some file
			// beneath it could satisfy the filter.
			if hasIncludes && !subtreeContainsMatch(entry.Path, ctx) {
				continue
			}
			dirs = append(dirs, entry)
			continue
		}

		if hasIncludes {
			// Include rules are authoritative for files and can re-admit
			// a file the gitignore or exclude rules dropped.
			if !included {
				continue
			}
		} else if excluded {
			log.Debug("walker: %q excluded", rel)
			continue
		}
		if ctx.NoFiles {
			continue
		}
		files = append(files, entry)
	}

	sortEntries(dirs)
	sortEntries(files)

	var visible []Entry
	if ctx.FilesFirst {
		visible = append(files, dirs...)
	} else {
		visible = append(dirs, files...)
	}

	truncated := 0
	if ctx.MaxItemsPerDir > 0 && len(visible) > ctx.MaxItemsPerDir {
		truncated = len(visible) - ctx.MaxItemsPerDir
		visible = visible[:ctx.MaxItemsPerDir]
	}
	return visible, truncated
}

// sortEntries orders a sibling group case-insensitively by name, with the
// exact name as tie-breaker so output is deterministic regardless of
// filesystem read order.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if a == b {
			return entries[i].Name < entries[j].Name
		}
		return a < b
	})
}

func includeMatch(entry Entry, rel string, ctx *Context) bool {
	if matchesIncludePatterns(entry.Name, rel, ctx.IncludePatterns) {
		return true
	}
	if !entry.IsDir && matchesFileType(entry.Name, ctx.IncludeFileTypes) {
		return true
	}
	return false
}

func matchesIncludePatterns(name, rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if fnmatch.Match(pattern, name, 0) || fnmatch.Match(pattern, rel, fnmatch.FNM_PATHNAME) {
			return true
		}
	}
	return false
}

func matchesFileType(name string, types []string) bool {
	if len(types) == 0 {
		return false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	for _, t := range types {
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(t, "."))) == ext {
			return true
		}
	}
	return false
}

func matchesAnyExclude(name, rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if fnmatch.Match(pattern, name, 0) || fnmatch.Match(pattern, rel, fnmatch.FNM_PATHNAME) {
			return true
		}
	}
	return false
}

// subtreeContainsMatch probes whether any file under dir satisfies the
// include patterns or file types. Read errors prune the unreadable branch
// and the probe carries on.
func subtreeContainsMatch(dir string, ctx *Context) bool {
	found := false
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = d.Name()
		}
		rel = filepath.ToSlash(rel)
		if matchesIncludePatterns(d.Name(), rel, ctx.IncludePatterns) || matchesFileType(d.Name(), ctx.IncludeFileTypes) {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// joinRel joins root-relative POSIX path components.
func joinRel(relDir, name string) string {
	if relDir == "" {
		return name
	}
	return relDir + "/" + name
}
