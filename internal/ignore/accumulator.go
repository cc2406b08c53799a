package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bethropolis/gitree/internal/utils"
)

// GitignoreFileName is the per-directory ignore file read during traversal.
const GitignoreFileName = ".gitignore"

// Accumulator extends an inherited rule set with the rules found in a
// directory's .gitignore, rewritten to be relative to the traversal root.
// Discovery is depth-bounded: past the cutoff no new files are read, while
// rules inherited from shallower directories keep applying.
type Accumulator struct {
	enabled  bool
	maxDepth int // <0 means unbounded
	logger   utils.Logger
}

// NewAccumulator creates an accumulator. maxDepth < 0 means .gitignore
// files are discovered at every depth; maxDepth of 0 disables discovery
// entirely, the root included.
func NewAccumulator(enabled bool, maxDepth int, logger utils.Logger) *Accumulator {
	if logger == nil {
		logger = utils.NoopLogger{}
	}
	return &Accumulator{enabled: enabled, maxDepth: maxDepth, logger: logger}
}

// WithinDepth reports whether .gitignore discovery is still active at the
// given directory depth.
func (a *Accumulator) WithinDepth(depth int) bool {
	return a.enabled && (a.maxDepth < 0 || depth < a.maxDepth)
}

// Extend returns the effective rule set for the directory at dir. relDir is
// the directory's root-relative POSIX path ("" for the root itself). The
// inherited set is returned unchanged when discovery is inactive, the file
// is missing, or it contributes no rules. A missing or unreadable
// .gitignore is never an error.
func (a *Accumulator) Extend(inherited *RuleSet, dir, relDir string, depth int) *RuleSet {
	if !a.WithinDepth(depth) {
		return inherited
	}
	data, err := os.ReadFile(filepath.Join(dir, GitignoreFileName))
	if err != nil {
		if !os.IsNotExist(err) {
			a.logger.Warn("ignore: cannot read %s in %q: %v", GitignoreFileName, dir, err)
		}
		return inherited
	}
	rules := ParseRules(string(data), relDir)
	if len(rules) == 0 {
		return inherited
	}
	a.logger.Debug("ignore: %d rule(s) loaded from %s", len(rules), filepath.Join(dir, GitignoreFileName))
	return inherited.Extend(rules)
}

// ParseRules parses .gitignore content into rules. origin is the
// root-relative directory the content came from ("" at the root); every
// pattern is prefixed with it so the rules only match under that directory.
// Blank lines, comments and empty patterns are skipped silently.
func ParseRules(content, origin string) []Rule {
	prefix := ""
	if origin != "" && origin != "." {
		prefix = strings.TrimSuffix(origin, "/") + "/"
	}

	var rules []Rule
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		negated := strings.HasPrefix(line, "!")
		pattern := line
		if negated {
			pattern = pattern[1:]
		}
		pattern = strings.TrimPrefix(pattern, "/")
		if pattern == "" {
			continue
		}
		pattern = prefix + pattern
		if negated {
			pattern = "!" + pattern
		}
		if rule, ok := CompileRule(pattern, origin); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}
