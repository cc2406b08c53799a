// Package printer renders walker events as a connector-drawn tree.
package printer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/bethropolis/gitree/internal/walker"
)

// Connector glyphs, matching the classic tree(1) layout.
const (
	branchConnector = "├── "
	lastConnector   = "└── "
	verticalPrefix  = "│   "
	spacePrefix     = "    "
)

// Icons rendered in icon mode.
const (
	fileIcon     = "📄"
	dirIcon      = "📁"
	emptyDirIcon = "📂"
)

// Printer draws the tree for one root. It implements walker.Visitor; the
// walker supplies order and truncation, the printer only formats.
type Printer struct {
	out       io.Writer
	useColors bool
	icons     bool

	prefixes     []string
	budgetPrefix string

	dirStyle    *color.Color
	hiddenStyle *color.Color
}

// New creates a Printer writing to out.
func New(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{
		out:         out,
		useColors:   true,
		prefixes:    []string{""},
		dirStyle:    color.New(color.FgBlue, color.Bold),
		hiddenStyle: color.New(color.Faint),
	}
}

// WithColors enables or disables colored names
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	return p
}

// WithIcons enables file/directory icons instead of colored names
func (p *Printer) WithIcons(enabled bool) *Printer {
	p.icons = enabled
	return p
}

// Root prints the root line. Call once before walking; the walker emits
// child entries only.
func (p *Printer) Root(path string) {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		name = path
	}
	fmt.Fprintln(p.out, name)
}

// Directory implements walker.Visitor.
func (p *Printer) Directory(path string, depth int, children []walker.Entry, truncated int) {}

// Entry implements walker.Visitor.
func (p *Printer) Entry(entry walker.Entry, parent string, depth int, last bool) {
	prefix := p.prefixAt(depth)
	connector := branchConnector
	if last {
		connector = lastConnector
	}

	suffix := ""
	if entry.IsDir {
		suffix = "/"
	}

	if p.icons {
		fmt.Fprintln(p.out, prefix+connector+p.icon(entry)+" "+entry.Name+suffix)
	} else {
		fmt.Fprintln(p.out, prefix+connector+p.colorize(entry, suffix))
	}

	continuation := verticalPrefix
	if last {
		continuation = spacePrefix
	}
	p.setPrefix(depth+1, prefix+continuation)
}

// DirTruncated implements walker.Visitor.
func (p *Printer) DirTruncated(count, depth int) {
	fmt.Fprintf(p.out, "%s%s... and %d more items\n", p.prefixAt(depth), lastConnector, count)
}

// BudgetExhausted implements walker.Visitor. The remainder line belongs to
// the directory where the budget died, so its prefix is captured here.
func (p *Printer) BudgetExhausted(depth int) {
	p.budgetPrefix = p.prefixAt(depth)
}

// BudgetRemainder implements walker.Visitor.
func (p *Printer) BudgetRemainder(count int) {
	fmt.Fprintf(p.out, "%s%s... and %d more entries\n", p.budgetPrefix, lastConnector, count)
}

func (p *Printer) colorize(entry walker.Entry, suffix string) string {
	name := entry.Name + suffix
	if !p.useColors {
		return name
	}
	hidden := len(entry.Name) > 0 && entry.Name[0] == '.'
	switch {
	case entry.IsDir && hidden:
		return p.hiddenStyle.Sprint(p.dirStyle.Sprint(name))
	case entry.IsDir:
		return p.dirStyle.Sprint(name)
	case hidden:
		return p.hiddenStyle.Sprint(name)
	default:
		return name
	}
}

func (p *Printer) icon(entry walker.Entry) string {
	if !entry.IsDir {
		return fileIcon
	}
	children, err := os.ReadDir(entry.Path)
	if err == nil && len(children) == 0 {
		return emptyDirIcon
	}
	return dirIcon
}

func (p *Printer) prefixAt(depth int) string {
	if depth >= 0 && depth < len(p.prefixes) {
		return p.prefixes[depth]
	}
	return ""
}

func (p *Printer) setPrefix(depth int, prefix string) {
	for len(p.prefixes) <= depth {
		p.prefixes = append(p.prefixes, "")
	}
	p.prefixes[depth] = prefix
}

var _ walker.Visitor = (*Printer)(nil)
