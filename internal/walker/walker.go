package walker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bethropolis/gitree/internal/ignore"
	"github.com/bethropolis/gitree/internal/utils"
)

// Walk traverses ctx.Root depth-first, pre-order, and reports every visited
// entry to v. All per-directory faults (permission errors, races with
// deletion, broken .gitignore files) degrade to an empty directory and the
// walk continues; Walk never fails.
//
// Walk is single-threaded and keeps no state between calls: separate roots
// may be walked concurrently by separate invocations.
func Walk(ctx *Context, v Visitor, opts ...Option) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	w := &walker{
		ctx:     ctx,
		acc:     ignore.NewAccumulator(ctx.RespectGitignore, ctx.GitignoreDepth, options.Logger),
		visitor: v,
		log:     options.Logger,
		state:   &walkState{},
	}
	w.walkDir(ctx.Root, "", 0, ignore.NewRuleSet())

	if w.state.capHit {
		v.BudgetRemainder(w.state.hidden)
	}
}

// ListChildren lists, filters and orders the immediate children of one
// directory under ctx's rules, without recursing. It returns the visible
// entries, the per-directory truncation count, and the inherited rule set
// extended with dir's own .gitignore rules, ready to hand to the next
// level. relDir is dir's root-relative POSIX path ("" for the root).
//
// This is the flat entry point for consumers that drive their own
// recursion, such as the interactive picker.
func ListChildren(dir, relDir string, depth int, inherited *ignore.RuleSet, ctx *Context, opts ...Option) ([]Entry, int, *ignore.RuleSet) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	acc := ignore.NewAccumulator(ctx.RespectGitignore, ctx.GitignoreDepth, options.Logger)
	return listChildren(dir, relDir, depth, inherited, acc, ctx, options.Logger)
}

type walker struct {
	ctx     *Context
	acc     *ignore.Accumulator
	visitor Visitor
	log     utils.Logger
	state   *walkState
}

func (w *walker) walkDir(dir, relDir string, depth int, inherited *ignore.RuleSet) {
	if w.ctx.MaxDepth >= 0 && depth >= w.ctx.MaxDepth {
		return
	}

	entries, truncated, rules := listChildren(dir, relDir, depth, inherited, w.acc, w.ctx, w.log)
	entries = applyWhitelist(entries, w.ctx.Whitelist)

	w.visitor.Directory(dir, depth, entries, truncated)

	for i, entry := range entries {
		if w.ctx.MaxTotalEntries > 0 && w.state.emitted >= w.ctx.MaxTotalEntries {
			if !w.state.capHit {
				w.state.capHit = true
				w.visitor.BudgetExhausted(depth)
			}
			w.state.hidden++
			// Directories already reached are still recursed so the
			// remainder count covers everything the budget hid.
			if entry.IsDir {
				w.walkDir(entry.Path, joinRel(relDir, entry.Name), depth+1, rules)
			}
			continue
		}

		last := i == len(entries)-1 && truncated == 0
		w.visitor.Entry(entry, dir, depth, last)
		w.state.emitted++

		if entry.IsDir {
			w.walkDir(entry.Path, joinRel(relDir, entry.Name), depth+1, rules)
		}
	}

	if truncated > 0 {
		if w.state.capHit {
			w.state.hidden += truncated
		} else {
			w.visitor.DirTruncated(truncated, depth)
			w.state.emitted++
		}
	}
}

func listChildren(dir, relDir string, depth int, inherited *ignore.RuleSet, acc *ignore.Accumulator, ctx *Context, log utils.Logger) ([]Entry, int, *ignore.RuleSet) {
	rules := acc.Extend(inherited, dir, relDir, depth)

	dirents, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable directories degrade to empty; the walk goes on.
		log.Warn("walker: cannot read directory %q: %v", dir, err)
		return nil, 0, rules
	}

	raw := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		raw = append(raw, Entry{
			Name:  d.Name(),
			Path:  filepath.Join(dir, d.Name()),
			IsDir: d.IsDir(),
		})
	}

	visible, truncated := filterEntries(raw, relDir, depth, rules, ctx, log)
	return visible, truncated, rules
}

// applyWhitelist enforces the explicit-selection veto: a file must be
// whitelisted, a directory must have a whitelisted path somewhere under it.
func applyWhitelist(entries []Entry, whitelist map[string]struct{}) []Entry {
	if whitelist == nil {
		return entries
	}
	kept := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir {
			if whitelistReaches(whitelist, entry.Path) {
				kept = append(kept, entry)
			}
			continue
		}
		if _, ok := whitelist[entry.Path]; ok {
			kept = append(kept, entry)
		}
	}
	return kept
}

func whitelistReaches(whitelist map[string]struct{}, dir string) bool {
	prefix := dir + string(filepath.Separator)
	for path := range whitelist {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
