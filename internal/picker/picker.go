// Package picker collects the candidate files of a traversal and, in
// interactive mode, lets the user choose which of them stay visible. The
// chosen files become the whitelist for the subsequent tree/export/zip
// pass.
package picker

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bethropolis/gitree/internal/ignore"
	"github.com/bethropolis/gitree/internal/utils"
	"github.com/bethropolis/gitree/internal/walker"
)

// Collect traverses ctx.Root once and returns the candidate files as
// root-relative POSIX paths, after gitignore/exclude/include/hidden
// filtering. Truncation caps are ignored: selection must see every
// candidate.
func Collect(ctx *walker.Context, log utils.Logger) []string {
	if log == nil {
		log = utils.NoopLogger{}
	}
	c := *ctx
	c.MaxItemsPerDir = 0
	c.MaxTotalEntries = 0
	c.Whitelist = nil

	var files []string
	var rec func(dir, relDir string, depth int, rules *ignore.RuleSet)
	rec = func(dir, relDir string, depth int, rules *ignore.RuleSet) {
		if c.MaxDepth >= 0 && depth >= c.MaxDepth {
			return
		}
		entries, _, extended := walker.ListChildren(dir, relDir, depth, rules, &c, walker.WithLogger(log))
		for _, entry := range entries {
			if entry.IsDir {
				rec(entry.Path, childRel(relDir, entry.Name), depth+1, extended)
				continue
			}
			files = append(files, childRel(relDir, entry.Name))
		}
	}
	rec(c.Root, "", 0, ignore.NewRuleSet())
	return files
}

// Select presents candidates (root-relative paths, all pre-selected) on out
// and reads selection commands from in until a blank line. It returns the
// chosen files as an absolute-path whitelist; an empty map means nothing
// was selected.
func Select(root string, candidates []string, in io.Reader, out io.Writer) map[string]struct{} {
	selected := make([]bool, len(candidates))
	for i := range selected {
		selected[i] = true
	}

	reader := bufio.NewScanner(in)
	for {
		printChecklist(out, candidates, selected)
		fmt.Fprint(out, "Toggle with numbers or ranges (e.g. 2 4-6), a = all, n = none, blank line = done: ")
		if !reader.Scan() {
			break
		}
		line := strings.TrimSpace(reader.Text())
		if line == "" {
			break
		}
		applyCommands(line, selected)
	}

	whitelist := make(map[string]struct{})
	for i, rel := range candidates {
		if selected[i] {
			whitelist[filepath.Join(root, filepath.FromSlash(rel))] = struct{}{}
		}
	}
	return whitelist
}

// Whitelist converts candidate paths straight into a whitelist without
// prompting, for non-interactive callers that already know the selection.
func Whitelist(root string, candidates []string) map[string]struct{} {
	whitelist := make(map[string]struct{}, len(candidates))
	for _, rel := range candidates {
		whitelist[filepath.Join(root, filepath.FromSlash(rel))] = struct{}{}
	}
	return whitelist
}

func printChecklist(out io.Writer, candidates []string, selected []bool) {
	for i, rel := range candidates {
		mark := " "
		if selected[i] {
			mark = "x"
		}
		fmt.Fprintf(out, "%3d [%s] %s\n", i+1, mark, rel)
	}
}

// applyCommands mutates the selection per one input line: "a"/"n" set
// everything, numbers and i-j ranges toggle. Unparsable tokens are
// ignored.
func applyCommands(line string, selected []bool) {
	for _, token := range strings.Fields(line) {
		switch strings.ToLower(token) {
		case "a", "all":
			for i := range selected {
				selected[i] = true
			}
			continue
		case "n", "none":
			for i := range selected {
				selected[i] = false
			}
			continue
		}
		lo, hi, ok := parseRange(token)
		if !ok {
			continue
		}
		for i := lo; i <= hi && i <= len(selected); i++ {
			if i >= 1 {
				selected[i-1] = !selected[i-1]
			}
		}
	}
}

func parseRange(token string) (int, int, bool) {
	if lo, hi, found := strings.Cut(token, "-"); found {
		a, errA := strconv.Atoi(lo)
		b, errB := strconv.Atoi(hi)
		if errA != nil || errB != nil {
			return 0, 0, false
		}
		if a > b {
			a, b = b, a
		}
		return a, b, true
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, 0, false
	}
	return n, n, true
}

// SortedPaths returns the whitelist's contents in deterministic order, for
// logging and tests.
func SortedPaths(whitelist map[string]struct{}) []string {
	out := make([]string, 0, len(whitelist))
	for p := range whitelist {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func childRel(relDir, name string) string {
	if relDir == "" {
		return name
	}
	return relDir + "/" + name
}
