package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svgasset/processor"
)

func touch(t *testing.T, root, rel string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("<svg/>"), 0o644))
}

func TestWalk_ListsMatchingFilesSorted(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "icons/b.svg")
	touch(t, root, "icons/a.SVG")
	touch(t, root, "logo.svg")
	touch(t, root, "readme.md")
	touch(t, root, ".cache/skip.svg")

	files, err := Walk(root, []string{".svg"})
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		assert.Equal(t, processor.EventInit, f.Event)
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"icons/a.SVG", "icons/b.svg", "logo.svg"}, paths)
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "nope"), []string{".svg"})
	assert.Error(t, err)
}
