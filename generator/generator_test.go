package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adnsv/iconfont/config"
	"github.com/adnsv/iconfont/glyph"
	"github.com/adnsv/iconfont/manifest"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	homeIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path d="M12 3L2 12h3v8h6v-6h2v6h6v-8h3z"/></svg>`
	userIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><circle cx="12" cy="8" r="4"/><rect x="4" y="14" width="16" height="6" rx="2"/></svg>`
)

func setup(t *testing.T) config.Options {
	dir := t.TempDir()
	icons := filepath.Join(dir, "svg-icons")
	require.NoError(t, os.Mkdir(icons, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(icons, "user-profile.svg"), []byte(userIcon), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(icons, "home.svg"), []byte(homeIcon), 0644))

	opts := config.Default()
	opts.Cwd = dir
	opts.Compile.StartPoint = 100
	opts.Compile.FontName = "test-font"
	opts.Compile.StyleFileName = "test-style"
	opts.Output.Font = "dist/fonts"
	opts.Output.Style = "dist/css"
	return opts
}

func fixedClock() time.Time { return time.UnixMilli(1700000000000) }

func run(t *testing.T, opts config.Options) *Build {
	log, _ := test.NewNullLogger()
	g := New(opts, log)
	g.Now = fixedClock
	b, err := g.Run(context.Background())
	require.NoError(t, err)
	return b
}

func readAll(t *testing.T, list []string) map[string][]byte {
	ret := map[string][]byte{}
	for _, fn := range list {
		buf, err := os.ReadFile(fn)
		require.NoError(t, err)
		ret[filepath.Base(fn)] = buf
	}
	return ret
}

func TestHash(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Hash(nil))
	assert.Equal(t, Hash([]byte("abc")), Hash([]byte("abc")))
	assert.NotEqual(t, Hash([]byte("abc")), Hash([]byte("abd")))
}

func TestRun(t *testing.T) {
	opts := setup(t)
	b := run(t, opts)

	assert.Equal(t, []glyph.Glyph{
		{Name: "home", Point: 100, Path: filepath.Join(opts.Cwd, "svg-icons", "home.svg"), Hex: "64"},
		{Name: "user_profile", Point: 101, Path: filepath.Join(opts.Cwd, "svg-icons", "user-profile.svg"), Hex: "65"},
	}, b.Glyphs)
	require.Len(t, b.Files, 6)
	for _, fn := range b.Files {
		assert.FileExists(t, fn)
	}
	assert.Equal(t, filepath.Join(opts.Cwd, "dist", "fonts", "test-font.ttf"), b.Files[1])
	assert.Equal(t, filepath.Join(opts.Cwd, "dist", "css", "test-style.css"), b.Files[5])

	css, err := os.ReadFile(b.Files[5])
	require.NoError(t, err)
	assert.Contains(t, string(css), `url("../fonts/test-font.woff2") format("woff2")`)
	assert.Contains(t, string(css), ".cw-icon-home:before {\n    content: \"\\64\";\n}")

	m, err := manifest.Read(opts.Cwd)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), m.Stamp)
	assert.Equal(t, b.Hash, m.Hash)
	assert.Equal(t, b.Files, m.Files)
	assert.Equal(t, b.Glyphs, m.Glyphs)
}

func TestRunDeterministic(t *testing.T) {
	opts := setup(t)
	first := run(t, opts)
	before := readAll(t, first.Files)

	second := run(t, opts)
	assert.Equal(t, first.Hash, second.Hash)
	assert.Equal(t, first.Files, second.Files)
	assert.Equal(t, before, readAll(t, second.Files))
}

func TestRunHashed(t *testing.T) {
	opts := setup(t)
	opts.Hash.Font = true
	opts.Hash.Style = true
	opts.Preview = true
	b := run(t, opts)

	short := b.Hash[:8]
	require.Len(t, b.Files, 7)
	assert.Equal(t, "test-font_"+short+".ttf", filepath.Base(b.Files[1]))
	assert.Equal(t, "test-style_"+short+".css", filepath.Base(b.Files[5]))
	assert.Equal(t, config.PreviewFileName, filepath.Base(b.Files[6]))
}

func TestRunCleansPreviousBuild(t *testing.T) {
	opts := setup(t)
	opts.Hash.Font = true
	first := run(t, opts)

	require.NoError(t, os.WriteFile(filepath.Join(opts.Cwd, "svg-icons", "zoom.svg"), []byte(homeIcon), 0644))
	second := run(t, opts)
	require.NotEqual(t, first.Hash, second.Hash)

	for _, fn := range first.Files[:5] {
		assert.NoFileExists(t, fn)
	}
	for _, fn := range second.Files {
		assert.FileExists(t, fn)
	}

	log, _ := test.NewNullLogger()
	require.NoError(t, manifest.Clean(opts.Cwd, log))
	for _, fn := range second.Files {
		assert.NoFileExists(t, fn)
	}
}

func TestRunNoIcons(t *testing.T) {
	opts := setup(t)
	for _, fn := range []string{"home.svg", "user-profile.svg"} {
		require.NoError(t, os.Remove(filepath.Join(opts.Cwd, "svg-icons", fn)))
	}

	log, _ := test.NewNullLogger()
	_, err := New(opts, log).Run(context.Background())
	assert.ErrorIs(t, err, glyph.ErrNoIcons)
	assert.NoDirExists(t, filepath.Join(opts.Cwd, "dist"))
	assert.NoFileExists(t, manifest.Path(opts.Cwd))
}

func TestRunConfigError(t *testing.T) {
	opts := setup(t)
	opts.Input.SvgsDir = "missing"

	log, _ := test.NewNullLogger()
	_, err := New(opts, log).Run(context.Background())
	assert.ErrorIs(t, err, config.ErrConfig)
}
