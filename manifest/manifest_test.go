package manifest

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/adnsv/iconfont/glyph"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	dir := t.TempDir()
	glyphs := []glyph.Glyph{{Name: "home", Point: 100, Path: "/icons/home.svg", Hex: "64"}}
	now := time.UnixMilli(1700000000123)

	require.NoError(t, Write(dir, glyphs, "abc", []string{"/out/a.ttf"}, now))

	buf, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Contains(t, string(buf), "\n    \"stamp\": 1700000000123,\n")
	assert.Contains(t, string(buf), `"hex": "64"`)

	m, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, &Manifest{
		Stamp:  1700000000123,
		Hash:   "abc",
		Glyphs: glyphs,
		Files:  []string{"/out/a.ttf"},
	}, m)
}

func TestReadMissing(t *testing.T) {
	m, err := Read(t.TempDir())
	assert.NoError(t, err)
	assert.Nil(t, m)
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.ttf")
	b := filepath.Join(dir, "b.css")
	missing := filepath.Join(dir, "gone.woff")
	keep := filepath.Join(dir, "keep.txt")
	for _, fn := range []string{a, b, keep} {
		require.NoError(t, os.WriteFile(fn, []byte("x"), 0644))
	}
	require.NoError(t, Write(dir, nil, "h", []string{a, missing, b}, time.Now()))

	log, _ := test.NewNullLogger()
	require.NoError(t, Clean(dir, log))
	assert.NoFileExists(t, a)
	assert.NoFileExists(t, b)
	assert.FileExists(t, keep)
}

func TestCleanCorrupt(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(keep, nil, 0644))
	require.NoError(t, os.WriteFile(Path(dir), []byte("{not json"), 0644))

	log, hook := test.NewNullLogger()
	assert.NoError(t, Clean(dir, log))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.FileExists(t, keep)
}

func TestCleanDamagedMetadata(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.ttf")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0644))
	buf := `{"stamp": "yesterday", "hash": 7, "glyphs": {}, "files": [` + strconv.Quote(a) + `]}`
	require.NoError(t, os.WriteFile(Path(dir), []byte(buf), 0644))

	_, err := Read(dir)
	assert.Error(t, err)

	log, hook := test.NewNullLogger()
	require.NoError(t, Clean(dir, log))
	assert.NoFileExists(t, a)
	assert.Empty(t, hook.Entries)
}

func TestCleanCorruptLocation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(Path(dir), []byte("{\n  \"files\": [1]\n}"), 0644))

	log, hook := test.NewNullLogger()
	require.NoError(t, Clean(dir, log))
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.LastEntry().Message, "at line 2:")
}

func TestCleanNoManifest(t *testing.T) {
	log, hook := test.NewNullLogger()
	assert.NoError(t, Clean(t.TempDir(), log))
	assert.Empty(t, hook.Entries)
}
