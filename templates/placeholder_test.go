package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurlyReplace(t *testing.T) {
	out, unknown := Curly.Replace("a {{fontName}} b {{fontName}}\n{{oops}} {{ glyphs }}", map[string]string{
		FontName: "X",
		Glyphs:   "G",
	})
	assert.Equal(t, "a X b X\n{{oops}} G", out)
	require.Len(t, unknown, 1)
	assert.Equal(t, "oops", unknown[0].Name)
	assert.Equal(t, "2:1", unknown[0].Location.String())
}

func TestPercentReplaceFirst(t *testing.T) {
	out := Percent.ReplaceFirst("{%styles%}|{%icons%}|{%styles%}", map[string]string{
		Styles: "S",
		Icons:  "I",
	})
	assert.Equal(t, "S|I|{%styles%}", out)
}

func TestFind(t *testing.T) {
	ph := Curly.Find(Style())
	names := map[string]bool{}
	for _, p := range ph {
		names[p.Name] = true
	}
	for _, n := range []string{FontName, FontPath, Selector, Glyphs} {
		assert.True(t, names[n], "built-in style template lacks %s", n)
	}

	ph = Percent.Find(Preview())
	require.Len(t, ph, 2)
	assert.Equal(t, Styles, ph[0].Name)
	assert.Equal(t, Icons, ph[1].Name)
	assert.Equal(t, "{%icons%}", Percent.Token(Icons))
}

func TestCalcSourceLocation(t *testing.T) {
	buf := "ab\r\ncd\rüf"
	assert.Equal(t, "1:1", CalcSourceLocation(buf, 0).String())
	assert.Equal(t, "2:2", CalcSourceLocation(buf, 5).String())
	i := strings.Index(buf, "f")
	assert.Equal(t, "3:2", CalcSourceLocation(buf, i).String())

	assert.Equal(t, "1:2", CalcSourceLocation("\xef\xbb\xbfab\nc", 4).String())
	assert.Equal(t, "2:2", CalcSourceLocation("ab\nc", 99).String())
	assert.Equal(t, SourceLocation{Line: 2, Column: 1}, CalcSourceLocation("ab\n\ncd", 3))
}

func TestLoad(t *testing.T) {
	s, err := Load("", "builtin")
	require.NoError(t, err)
	assert.Equal(t, "builtin", s)

	_, err = Load("/definitely/missing.tpl", "builtin")
	assert.Error(t, err)
}
