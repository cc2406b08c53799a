package archive_test

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/gitree/internal/archive"
	"github.com/bethropolis/gitree/internal/walker"
)

func write(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func members(t *testing.T, data []byte) map[string]string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make(map[string]string, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = buf.String()
	}
	return out
}

func TestArchiverStoresFilteredFiles(t *testing.T) {
	root := t.TempDir()
	write(t, root, map[string]string{
		".gitignore":  "*.log\n",
		"src/main.go": "package main\n",
		"debug.log":   "noise",
	})

	var buf bytes.Buffer
	arch := archive.NewArchiver(&buf, nil)
	arch.AddRoot(walker.NewContext(root), "")
	require.NoError(t, arch.Close())

	got := members(t, buf.Bytes())
	assert.Equal(t, map[string]string{"src/main.go": "package main\n"}, got,
		"ignored files never reach the archive")
}

func TestArchiverPrefix(t *testing.T) {
	root := t.TempDir()
	write(t, root, map[string]string{"a.txt": "data"})

	var buf bytes.Buffer
	arch := archive.NewArchiver(&buf, nil)
	arch.AddRoot(walker.NewContext(root), "proj")
	require.NoError(t, arch.Close())

	got := members(t, buf.Bytes())
	_, ok := got["proj/a.txt"]
	assert.True(t, ok)
}

func TestArchiverFileRoot(t *testing.T) {
	root := t.TempDir()
	write(t, root, map[string]string{"single.txt": "one"})

	var buf bytes.Buffer
	arch := archive.NewArchiver(&buf, nil)
	arch.AddRoot(walker.NewContext(filepath.Join(root, "single.txt")), "")
	require.NoError(t, arch.Close())

	got := members(t, buf.Bytes())
	assert.Equal(t, map[string]string{"single.txt": "one"}, got)
}

func TestArchiverMultipleRoots(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	write(t, rootA, map[string]string{"a.txt": "a"})
	write(t, rootB, map[string]string{"b.txt": "b"})

	var buf bytes.Buffer
	arch := archive.NewArchiver(&buf, nil)
	arch.AddRoot(walker.NewContext(rootA), filepath.Base(rootA))
	arch.AddRoot(walker.NewContext(rootB), filepath.Base(rootB))
	require.NoError(t, arch.Close())

	got := members(t, buf.Bytes())
	names := make([]string, 0, len(got))
	for name := range got {
		names = append(names, name)
	}
	sort.Strings(names)
	require.Len(t, names, 2)
	assert.Equal(t, filepath.Base(rootA)+"/a.txt", names[0])
	assert.Equal(t, filepath.Base(rootB)+"/b.txt", names[1])
}
