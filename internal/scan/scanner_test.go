package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested", ".hidden"), 0o755))

	write := func(rel string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte("{}"), 0o644))
	}
	write("a.json")
	write("a.cleaned.json")
	write("notes.txt")
	write(filepath.Join("nested", "b.json"))
	write(filepath.Join("nested", ".hidden", "c.json"))

	files, err := ScanRoot(root)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		rel, err := filepath.Rel(root, f.Path)
		require.NoError(t, err)
		names = append(names, filepath.ToSlash(rel))
		assert.Greater(t, f.Mtime, int64(0))
	}
	assert.ElementsMatch(t, []string{"a.json", "nested/b.json"}, names)
}

func TestScanRootMissing(t *testing.T) {
	files, err := ScanRoot(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanRootEmpty(t *testing.T) {
	files, err := ScanRoot("")
	require.NoError(t, err)
	assert.Empty(t, files)
}
