// Package archive writes the filtered view of one or more roots into a zip
// file, driven by the same walker as the renderer and exporters.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/bethropolis/gitree/internal/utils"
	"github.com/bethropolis/gitree/internal/walker"
)

// Archiver appends walked files to a zip stream. Unreadable files are
// logged and skipped, matching the walker's degrade-don't-abort policy.
type Archiver struct {
	zw  *zip.Writer
	log utils.Logger
}

// NewArchiver creates an Archiver writing zip data to w.
func NewArchiver(w io.Writer, log utils.Logger) *Archiver {
	if log == nil {
		log = utils.NoopLogger{}
	}
	return &Archiver{zw: zip.NewWriter(w), log: log}
}

// AddRoot walks ctx.Root and stores every visited file under its
// root-relative POSIX path, prefixed with prefix when several roots share
// one archive. A root that is itself a file is stored directly.
func (a *Archiver) AddRoot(ctx *walker.Context, prefix string) {
	info, err := os.Stat(ctx.Root)
	if err != nil {
		a.log.Warn("archive: cannot stat %q: %v", ctx.Root, err)
		return
	}
	if !info.IsDir() {
		a.addFile(ctx.Root, path.Join(prefix, filepath.Base(ctx.Root)))
		return
	}

	v := &zipVisitor{archiver: a, root: ctx.Root, prefix: prefix}
	walker.Walk(ctx, v, walker.WithLogger(a.log))
}

// Close finishes the archive's central directory.
func (a *Archiver) Close() error {
	if err := a.zw.Close(); err != nil {
		return fmt.Errorf("archive: close: %w", err)
	}
	return nil
}

func (a *Archiver) addFile(filePath, memberName string) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		a.log.Warn("archive: cannot read %q: %v", filePath, err)
		return
	}
	w, err := a.zw.Create(memberName)
	if err != nil {
		a.log.Warn("archive: cannot create member %q: %v", memberName, err)
		return
	}
	if _, err := w.Write(data); err != nil {
		a.log.Warn("archive: cannot write member %q: %v", memberName, err)
	}
}

// zipVisitor reacts to walk events by storing files; directories are
// implied by member paths and not materialized.
type zipVisitor struct {
	archiver *Archiver
	root     string
	prefix   string
}

func (v *zipVisitor) Directory(dir string, depth int, children []walker.Entry, truncated int) {}

func (v *zipVisitor) Entry(entry walker.Entry, parent string, depth int, last bool) {
	if entry.IsDir {
		return
	}
	rel, err := filepath.Rel(v.root, entry.Path)
	if err != nil {
		v.archiver.log.Warn("archive: cannot relativize %q: %v", entry.Path, err)
		return
	}
	v.archiver.addFile(entry.Path, path.Join(v.prefix, filepath.ToSlash(rel)))
}

func (v *zipVisitor) DirTruncated(count, depth int) {}
func (v *zipVisitor) BudgetExhausted(depth int)     {}
func (v *zipVisitor) BudgetRemainder(count int)     {}

var _ walker.Visitor = (*zipVisitor)(nil)
