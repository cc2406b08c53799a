package picker_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/gitree/internal/picker"
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

func TestCollect(t *testing.T) {
	root := t.TempDir()
	write(t, root, map[string]string{
		".gitignore":  "*.log\n",
		"src/main.go": "",
		"src/util.go": "",
		"debug.log":   "",
		"README.md":   "",
	})

	got := picker.Collect(walker.NewContext(root), nil)
	assert.Equal(t, []string{"src/main.go", "src/util.go", "README.md"}, got)
}

func TestCollectIgnoresTruncationCaps(t *testing.T) {
	root := t.TempDir()
	write(t, root, map[string]string{"a.txt": "", "b.txt": "", "c.txt": ""})

	ctx := walker.NewContext(root)
	ctx.MaxItemsPerDir = 1
	ctx.MaxTotalEntries = 1
	got := picker.Collect(ctx, nil)

	assert.Len(t, got, 3, "selection must see every candidate")
}

func TestCollectHonorsMaxDepth(t *testing.T) {
	root := t.TempDir()
	write(t, root, map[string]string{"top.txt": "", "sub/deep.txt": ""})

	ctx := walker.NewContext(root)
	ctx.MaxDepth = 1
	got := picker.Collect(ctx, nil)

	assert.Equal(t, []string{"top.txt"}, got)
}

func TestSelectDefaultsToEverything(t *testing.T) {
	root := t.TempDir()
	candidates := []string{"a.txt", "b.txt"}

	whitelist := picker.Select(root, candidates, strings.NewReader("\n"), io.Discard)
	assert.Equal(t, []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "b.txt"),
	}, picker.SortedPaths(whitelist))
}

func TestSelectToggle(t *testing.T) {
	root := t.TempDir()
	candidates := []string{"a.txt", "b.txt", "c.txt"}

	whitelist := picker.Select(root, candidates, strings.NewReader("2\n\n"), io.Discard)
	assert.Equal(t, []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "c.txt"),
	}, picker.SortedPaths(whitelist))
}

func TestSelectRangeAndNone(t *testing.T) {
	root := t.TempDir()
	candidates := []string{"a.txt", "b.txt", "c.txt", "d.txt"}

	// Clear everything, then toggle 2 through 4 back on.
	whitelist := picker.Select(root, candidates, strings.NewReader("n 2-4\n\n"), io.Discard)
	assert.Equal(t, []string{
		filepath.Join(root, "b.txt"),
		filepath.Join(root, "c.txt"),
		filepath.Join(root, "d.txt"),
	}, picker.SortedPaths(whitelist))
}

func TestSelectReversedRangeAndJunk(t *testing.T) {
	root := t.TempDir()
	candidates := []string{"a.txt", "b.txt", "c.txt"}

	// Reversed bounds normalize; unparsable and out-of-range tokens are
	// ignored.
	whitelist := picker.Select(root, candidates, strings.NewReader("n 3-1 bogus 99\n\n"), io.Discard)
	assert.Len(t, whitelist, 3)
}

func TestSelectNoneLeavesEmptyWhitelist(t *testing.T) {
	root := t.TempDir()
	whitelist := picker.Select(root, []string{"a.txt"}, strings.NewReader("none\n\n"), io.Discard)
	assert.Empty(t, whitelist)
}

func TestSelectEOFKeepsSelection(t *testing.T) {
	root := t.TempDir()
	whitelist := picker.Select(root, []string{"a.txt"}, strings.NewReader(""), io.Discard)
	assert.Len(t, whitelist, 1)
}

func TestWhitelist(t *testing.T) {
	root := t.TempDir()
	whitelist := picker.Whitelist(root, []string{"src/a.go"})
	_, ok := whitelist[filepath.Join(root, "src", "a.go")]
	assert.True(t, ok)
}
