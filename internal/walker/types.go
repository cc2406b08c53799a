// Package walker is the shared traversal engine: one filtered, ordered,
// depth-first walk backing the tree renderer, the exporters, the zip
// archiver and the interactive picker.
package walker

// Entry is one filesystem child as produced by a directory read. Entries
// are transient: each read produces a fresh slice and nothing is cached
// across calls.
type Entry struct {
	Name  string
	Path  string // absolute
	IsDir bool
}

// Context is the immutable configuration for one traversal. It is
// constructed once per root and read-only thereafter; the walker assumes a
// validated Context and does not re-check it.
type Context struct {
	// Root is the absolute path the traversal starts from.
	Root string

	// MaxDepth limits recursion. Negative means unlimited; 0 visits only
	// the root and emits no child entries.
	MaxDepth int

	// ShowHidden includes dotfiles. An entry explicitly matched by
	// IncludePatterns or IncludeFileTypes is shown even when hidden.
	ShowHidden bool

	// RespectGitignore enables per-directory .gitignore discovery, bounded
	// by GitignoreDepth (negative: unbounded; 0: no .gitignore is read at
	// all, previously there is nothing inherited to keep).
	RespectGitignore bool
	GitignoreDepth   int

	// ExcludePatterns are extra gitignore-style globs matched against the
	// entry name or its root-relative path. They apply while the directory
	// depth is <= ExcludeDepth (negative: no cutoff).
	ExcludePatterns []string
	ExcludeDepth    int

	// IncludePatterns and IncludeFileTypes, when non-empty, are
	// authoritative for files: only matching files survive, and a
	// directory survives only if its subtree can contain a match.
	IncludePatterns  []string
	IncludeFileTypes []string

	// NoFiles drops all file entries, directories are unaffected.
	NoFiles bool

	// MaxItemsPerDir caps each directory's visible children (<=0: no cap).
	// Purely cosmetic: truncated-away entries are reported as a count and
	// never visited.
	MaxItemsPerDir int

	// MaxTotalEntries caps entries emitted across the whole walk (<=0: no
	// cap). Once reached, directories already entered are still recursed
	// for counting, and one aggregate remainder is reported at the end.
	MaxTotalEntries int

	// FilesFirst orders files before directories among siblings.
	FilesFirst bool

	// Whitelist, when non-nil, is the final veto: only the listed files
	// (absolute paths) and directories containing them are visible. Depth
	// limits still apply. The whitelist is enforced by the walker, not the
	// entry filter, so the picker computing whitelists can reuse the
	// filter.
	Whitelist map[string]struct{}
}

// NewContext returns a Context with every limit disabled, matching the
// tool's defaults apart from gitignore handling, which is on.
func NewContext(root string) *Context {
	return &Context{
		Root:             root,
		MaxDepth:         -1,
		RespectGitignore: true,
		GitignoreDepth:   -1,
		ExcludeDepth:     -1,
	}
}

// Visitor receives traversal events in depth-first pre-order. Visitors
// never return errors: per-directory faults degrade inside the walker and
// nothing a visitor observes can abort the walk.
type Visitor interface {
	// Directory is called once per visited directory with its filtered,
	// ordered children and the per-directory truncation count, before any
	// of those children are emitted.
	Directory(path string, depth int, children []Entry, truncated int)

	// Entry is called for each surviving child before recursing into it.
	// last reports whether this is the final line rendered under parent
	// (false for every child when a truncation line will follow).
	Entry(entry Entry, parent string, depth int, last bool)

	// DirTruncated reports entries hidden by the per-directory cap.
	DirTruncated(count, depth int)

	// BudgetExhausted fires once, at the point the global entry budget is
	// first exceeded.
	BudgetExhausted(depth int)

	// BudgetRemainder reports the aggregate number of entries hidden by
	// the global budget, after the walk finishes. Only fires when
	// BudgetExhausted fired.
	BudgetRemainder(count int)
}

// walkState is the mutable bookkeeping for one Walk invocation, threaded
// explicitly through the recursion.
type walkState struct {
	emitted int
	hidden  int
	capHit  bool
}
