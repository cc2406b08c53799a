// Package summary tallies what a walk visited.
package summary

import (
	"fmt"

	"github.com/bethropolis/gitree/internal/walker"
)

// Collector counts visited entries. It implements walker.Visitor and can
// share a walk with another visitor via Tee.
type Collector struct {
	Dirs      int
	Files     int
	Truncated int
}

func (c *Collector) Directory(path string, depth int, children []walker.Entry, truncated int) {}

func (c *Collector) Entry(entry walker.Entry, parent string, depth int, last bool) {
	if entry.IsDir {
		c.Dirs++
	} else {
		c.Files++
	}
}

func (c *Collector) DirTruncated(count, depth int) {
	c.Truncated += count
}

func (c *Collector) BudgetExhausted(depth int) {}

func (c *Collector) BudgetRemainder(count int) {
	c.Truncated += count
}

// String formats the tallies the way the tree footer prints them.
func (c *Collector) String() string {
	s := fmt.Sprintf("%d directories, %d files", c.Dirs, c.Files)
	if c.Truncated > 0 {
		s += fmt.Sprintf(", %d truncated", c.Truncated)
	}
	return s
}

// Tee fans walk events out to several visitors, so a summary can ride
// along with a renderer on a single traversal.
type Tee []walker.Visitor

func (t Tee) Directory(path string, depth int, children []walker.Entry, truncated int) {
	for _, v := range t {
		v.Directory(path, depth, children, truncated)
	}
}

func (t Tee) Entry(entry walker.Entry, parent string, depth int, last bool) {
	for _, v := range t {
		v.Entry(entry, parent, depth, last)
	}
}

func (t Tee) DirTruncated(count, depth int) {
	for _, v := range t {
		v.DirTruncated(count, depth)
	}
}

func (t Tee) BudgetExhausted(depth int) {
	for _, v := range t {
		v.BudgetExhausted(depth)
	}
}

func (t Tee) BudgetRemainder(count int) {
	for _, v := range t {
		v.BudgetRemainder(count)
	}
}

var (
	_ walker.Visitor = (*Collector)(nil)
	_ walker.Visitor = (Tee)(nil)
)
