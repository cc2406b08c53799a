// Package ignore implements gitignore-style pattern matching with
// last-match-wins semantics.
//
// Rules are compiled once and immutable. A rule set is extended per
// directory during traversal: each directory's .gitignore contributes rules
// rewritten to be root-relative, so a rule written in src/.gitignore only
// ever matches paths under src/.
package ignore

import (
	"strings"

	"github.com/danwakefield/fnmatch"
)

// Rule is one compiled exclusion/inclusion pattern.
type Rule struct {
	// Glob is the root-relative glob text with negation and directory
	// markers stripped.
	Glob string
	// Negated marks a "!" rule that re-includes matching paths.
	Negated bool
	// Origin is the root-relative directory whose .gitignore contributed
	// the rule ("" for root-level and command-line rules).
	Origin string

	dirOnly  bool // pattern ended with "/": matches directories only
	anchored bool // pattern contains "/": matches the full relative path
	segments []string
}

// CompileRule parses one gitignore-style pattern. The boolean result is
// false when the pattern is empty after trimming markers. Malformed glob
// text is kept as-is: a glob that cannot match anything simply never
// matches, it does not error.
func CompileRule(pattern, origin string) (Rule, bool) {
	text := strings.TrimSpace(pattern)
	negated := strings.HasPrefix(text, "!")
	if negated {
		text = text[1:]
	}
	dirOnly := strings.HasSuffix(text, "/")
	text = strings.TrimSuffix(text, "/")
	text = strings.TrimPrefix(text, "/")
	if text == "" {
		return Rule{}, false
	}

	rule := Rule{
		Glob:    text,
		Negated: negated,
		Origin:  origin,
		dirOnly: dirOnly,
	}
	if strings.Contains(text, "/") {
		rule.anchored = true
		rule.segments = strings.Split(text, "/")
	}
	return rule, true
}

// Match reports whether the rule matches the root-relative POSIX path.
// A rule that matches an ancestor directory of the path matches the path
// too: excluding a directory excludes its contents.
func (r Rule) Match(relPath string, isDir bool) bool {
	if relPath == "" || relPath == "." {
		return false
	}
	segs := strings.Split(relPath, "/")
	if r.matchPath(segs, isDir) {
		return true
	}
	// Ancestors of the probed path are directories by construction.
	for i := 1; i < len(segs); i++ {
		if r.matchPath(segs[:i], true) {
			return true
		}
	}
	return false
}

func (r Rule) matchPath(segs []string, isDir bool) bool {
	if r.dirOnly && !isDir {
		return false
	}
	if !r.anchored {
		// Unanchored rules match the basename at any depth.
		return fnmatch.Match(r.Glob, segs[len(segs)-1], 0)
	}
	return matchSegments(r.segments, segs)
}

// matchSegments matches pattern segments against path segments, with "**"
// spanning zero or more path segments.
func matchSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(path); i++ {
			if matchSegments(pattern[1:], path[i:]) {
				return true
			}
		}
		return false
	}
	if len(path) == 0 {
		return false
	}
	if !fnmatch.Match(pattern[0], path[0], 0) {
		return false
	}
	return matchSegments(pattern[1:], path[1:])
}
