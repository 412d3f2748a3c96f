package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMkdir_CreatesAncestors(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "a", "b", "c")

	require.NoError(t, Mkdir(dir))
	assert.True(t, IsDir(dir))

	// existing directories are fine
	require.NoError(t, Mkdir(dir))
	require.NoError(t, Mkdir(root))
}

func TestMkdir_FileInTheWay(t *testing.T) {
	root := t.TempDir()
	fn := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(fn, nil, 0644))

	assert.Error(t, Mkdir(filepath.Join(fn, "sub")))
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	fn := filepath.Join(root, "x.txt")
	require.NoError(t, os.WriteFile(fn, []byte("x"), 0644))

	removed, err := Remove(fn)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, IsFile(fn))

	removed, err = Remove(fn)
	require.NoError(t, err)
	assert.False(t, removed)

	// directories are never removed
	removed, err = Remove(root)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.True(t, IsDir(root))
}

func TestWrite(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "out.css")
	require.NoError(t, Write(fn, []byte("a{}")))
	buf, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, "a{}", string(buf))
}
