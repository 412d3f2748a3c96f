package style

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adnsv/iconfont/config"
	"github.com/adnsv/iconfont/glyph"
	"github.com/adnsv/iconfont/stylesheet"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleGlyphs = []glyph.Glyph{
	{Name: "home", Point: 100, Path: "/icons/home.svg", Hex: "64"},
	{Name: "user_profile", Point: 101, Path: "/icons/user-profile.svg", Hex: "65"},
}

func TestParentSelector(t *testing.T) {
	for sel, want := range map[string]string{
		".cw-icon-{{glyph}}": ".cw-icon",
		".icon_{{glyph}}":    ".icon",
		"{{glyph}}":          "",
		".plain":             ".plain",
	} {
		assert.Equal(t, want, ParentSelector(sel), sel)
	}
}

func TestFontPath(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, "../fonts/x_abc",
		FontPath(filepath.Join(root, "css", "x.css"), filepath.Join(root, "fonts", "x_abc")))
	assert.Equal(t, "x",
		FontPath(filepath.Join(root, "x.css"), filepath.Join(root, "x")))
}

func TestRender(t *testing.T) {
	out, unknown := Render("{{selector}} {font-family: \"{{fontName}}\"; src: url(\"{{fontPath}}.ttf\");}\n{{glyphs}}\n{{colour}}",
		sampleGlyphs, ".cw-icon-{{glyph}}", "myfont", "../fonts/myfont")

	assert.Equal(t, `.cw-icon {font-family: "myfont"; src: url("../fonts/myfont.ttf");}
.cw-icon-home:before {content: "\64";}

.cw-icon-user_profile:before {content: "\65";}
{{colour}}`, out)
	require.Len(t, unknown, 1)
	assert.Equal(t, "colour", unknown[0].Name)
	assert.Equal(t, "3:1", unknown[0].Location.String())
}

func testOptions(t *testing.T) *config.Options {
	dir := t.TempDir()
	opts := config.Default()
	opts.Cwd = dir
	opts.Compile.FontName = "myfont"
	opts.Compile.StyleFileName = "mystyle"
	opts.Output.Font = filepath.Join(dir, "fonts")
	opts.Output.Style = filepath.Join(dir, "css")
	return &opts
}

func TestWrite(t *testing.T) {
	opts := testOptions(t)
	log, _ := test.NewNullLogger()

	fn, err := Write(sampleGlyphs, "abcdef1234567890", opts, log)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(opts.Output.Style, "mystyle.css"), fn)

	buf, err := os.ReadFile(fn)
	require.NoError(t, err)
	css := string(buf)
	assert.Contains(t, css, "@font-face {\n    font-family: \"myfont\";\n")
	assert.Contains(t, css, `url("../fonts/myfont.woff2") format("woff2")`)
	assert.Contains(t, css, ".cw-icon {\n    display: inline-block;\n")
	assert.Contains(t, css, "font-family: \"myfont\" !important;")
	assert.Contains(t, css, ".cw-icon-home:before {\n    content: \"\\64\";\n}")
	assert.True(t, strings.HasSuffix(css, "}\n"))

	_, err = stylesheet.Parse(css)
	assert.NoError(t, err)

	again, err := Write(sampleGlyphs, "abcdef1234567890", opts, log)
	require.NoError(t, err)
	buf2, err := os.ReadFile(again)
	require.NoError(t, err)
	assert.Equal(t, buf, buf2)
}

func TestWriteHashed(t *testing.T) {
	opts := testOptions(t)
	opts.Hash.Font = true
	opts.Hash.Style = true
	log, _ := test.NewNullLogger()

	fn, err := Write(sampleGlyphs, "abcdef1234567890", opts, log)
	require.NoError(t, err)
	assert.Equal(t, "mystyle_abcdef12.css", filepath.Base(fn))
	buf, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Contains(t, string(buf), `url("../fonts/myfont_abcdef12.ttf")`)
}

func TestWriteGlobal(t *testing.T) {
	opts := testOptions(t)
	opts.Global = true
	log, _ := test.NewNullLogger()

	fn, err := Write(sampleGlyphs, "", opts, log)
	require.NoError(t, err)
	buf, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Contains(t, string(buf), ":global(.cw-icon-home):before {")
	assert.Contains(t, string(buf), ":global(.cw-icon) {")
}

func TestWriteUnknownPlaceholder(t *testing.T) {
	opts := testOptions(t)
	tpl := filepath.Join(opts.Cwd, "style.tpl")
	require.NoError(t, os.WriteFile(tpl, []byte("/* {{banner}} */\n{{glyphs}}\n"), 0644))
	opts.Input.StyleTpl = tpl

	log, hook := test.NewNullLogger()
	_, err := Write(sampleGlyphs, "", opts, log)
	require.NoError(t, err)

	require.Len(t, hook.Entries, 2)
	assert.Equal(t, logrus.WarnLevel, hook.Entries[0].Level)
	assert.Equal(t, tpl+":1:4: unknown placeholder {{banner}}", hook.Entries[0].Message)
}

func TestProcess(t *testing.T) {
	log, hook := test.NewNullLogger()
	opts := config.Default()

	opts.Compile.Syntax = "scss"
	out, err := Process(".a {\n.b { color: red; }\n}", &opts, log)
	require.NoError(t, err)
	assert.Equal(t, ".a {\n    .b { color: red; }\n}\n", out)

	opts.Stylelint = true
	_, err = Process(".a {\n.b { color: red; }\n", &opts, log)
	assert.ErrorIs(t, err, stylesheet.ErrLint)

	opts.Compile.Syntax = "css"
	out, err = Process(".a {color: #FFF;}\n.b {}", &opts, log)
	require.NoError(t, err)
	assert.Equal(t, ".a {\n    color: #fff;\n}\n", out)
	assert.NotEmpty(t, hook.Entries)
}
