// Package export builds a structured snapshot of a walk and serializes it
// as JSON, Markdown or a plain text tree, optionally embedding file
// contents.
package export

import (
	"fmt"
	"path/filepath"

	"github.com/bethropolis/gitree/internal/utils"
	"github.com/bethropolis/gitree/internal/walker"
)

// NodeType discriminates snapshot nodes.
type NodeType string

const (
	NodeFile      NodeType = "file"
	NodeDirectory NodeType = "directory"
	NodeTruncated NodeType = "truncated"
)

// Node is one element of the exported tree snapshot.
type Node struct {
	Name     string   `json:"name"`
	Type     NodeType `json:"type"`
	Path     string   `json:"path,omitempty"`
	Contents *string  `json:"contents,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// Builder is a walker.Visitor accumulating the nested snapshot that
// mirrors exactly what the walker visited.
type Builder struct {
	root    *Node
	rootDir string

	includeContents bool
	noContentsFor   map[string]struct{}
	log             utils.Logger

	// current[d] is the directory node receiving entries emitted at depth
	// d; pending maps a directory's absolute path to its node between the
	// Entry event that created it and the Directory event that enters it.
	current     []*Node
	pending     map[string]*Node
	budgetDepth int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithContents enables or disables embedding file contents.
func WithContents(enabled bool) BuilderOption {
	return func(b *Builder) { b.includeContents = enabled }
}

// WithoutContentsFor excludes contents for specific files (absolute paths).
func WithoutContentsFor(paths []string) BuilderOption {
	return func(b *Builder) {
		for _, p := range paths {
			if abs, err := filepath.Abs(p); err == nil {
				b.noContentsFor[abs] = struct{}{}
			}
		}
	}
}

// WithBuilderLogger sets the logger used for content-read warnings.
func WithBuilderLogger(log utils.Logger) BuilderOption {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBuilder creates a Builder for the given root path.
func NewBuilder(rootDir string, opts ...BuilderOption) *Builder {
	root := &Node{
		Name: filepath.Base(rootDir),
		Type: NodeDirectory,
	}
	b := &Builder{
		root:            root,
		rootDir:         rootDir,
		includeContents: true,
		noContentsFor:   make(map[string]struct{}),
		log:             utils.NoopLogger{},
		current:         []*Node{root},
		pending:         make(map[string]*Node),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Tree returns the accumulated snapshot.
func (b *Builder) Tree() *Node {
	return b.root
}

// Directory implements walker.Visitor.
func (b *Builder) Directory(path string, depth int, children []walker.Entry, truncated int) {
	if depth == 0 {
		b.setCurrent(0, b.root)
		return
	}
	if node, ok := b.pending[path]; ok {
		b.setCurrent(depth, node)
		delete(b.pending, path)
	}
}

// Entry implements walker.Visitor.
func (b *Builder) Entry(entry walker.Entry, parent string, depth int, last bool) {
	node := &Node{Name: entry.Name}
	if entry.IsDir {
		node.Type = NodeDirectory
		b.pending[entry.Path] = node
	} else {
		node.Type = NodeFile
		if rel, err := filepath.Rel(b.rootDir, entry.Path); err == nil {
			node.Path = filepath.ToSlash(rel)
		} else {
			node.Path = entry.Name
		}
		if b.includeContents {
			if _, skip := b.noContentsFor[entry.Path]; !skip {
				contents, err := utils.ReadFileText(entry.Path)
				if err != nil {
					b.log.Warn("export: cannot read %q: %v", entry.Path, err)
				} else {
					node.Contents = &contents
				}
			}
		}
	}
	b.attach(depth, node)
}

// DirTruncated implements walker.Visitor.
func (b *Builder) DirTruncated(count, depth int) {
	b.attach(depth, &Node{
		Name: fmt.Sprintf("... and %d more items", count),
		Type: NodeTruncated,
	})
}

// BudgetExhausted implements walker.Visitor.
func (b *Builder) BudgetExhausted(depth int) {
	b.budgetDepth = depth
}

// BudgetRemainder implements walker.Visitor.
func (b *Builder) BudgetRemainder(count int) {
	b.attach(b.budgetDepth, &Node{
		Name: fmt.Sprintf("... and %d more entries", count),
		Type: NodeTruncated,
	})
}

func (b *Builder) attach(depth int, node *Node) {
	parent := b.root
	if depth >= 0 && depth < len(b.current) && b.current[depth] != nil {
		parent = b.current[depth]
	}
	parent.Children = append(parent.Children, node)
}

func (b *Builder) setCurrent(depth int, node *Node) {
	for len(b.current) <= depth {
		b.current = append(b.current, nil)
	}
	b.current[depth] = node
}

var _ walker.Visitor = (*Builder)(nil)
