package fonts

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/adnsv/iconfont/config"
	"github.com/adnsv/iconfont/svgpath"
	"github.com/andybalholm/brotli"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

func sampleFont() []byte {
	ring := svgpath.Ellipse(512, 512, 400, 400).Format(3)
	return []byte(fmt.Sprintf(`<?xml version="1.0" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd" >
<svg xmlns="http://www.w3.org/2000/svg">
<defs>
  <font id="test-font" horiz-adv-x="1024">
    <font-face font-family="test-font"
      units-per-em="1024" ascent="1024"
      descent="0" font-weight="400" />
    <missing-glyph horiz-adv-x="0" />
    <glyph glyph-name="home"
      unicode="&#x64;"
      horiz-adv-x="1024" d="M0 1024L1024 1024L1024 0L0 0Z" />
    <glyph glyph-name="user_profile"
      unicode="&#x65;"
      horiz-adv-x="512" d="%s" />
    <glyph glyph-name="图标"
      unicode="&#xe001;"
      horiz-adv-x="1024" d="" />
  </font>
</defs>
</svg>
`, ring))
}

func TestParseSVGFont(t *testing.T) {
	f, err := ParseSVGFont(sampleFont())
	require.NoError(t, err)
	assert.Equal(t, "test-font", f.Family)
	assert.Equal(t, 1024, f.UnitsPerEm)
	assert.Equal(t, 1024, f.Ascent)
	assert.Equal(t, 0, f.Descent)
	assert.Equal(t, 400, f.Weight)
	require.Len(t, f.Glyphs, 3)
	assert.Equal(t, []rune{'d'}, f.Glyphs[0].Unicode)
	assert.Equal(t, 512, f.Glyphs[1].Advance)
	assert.Equal(t, []rune{'d', 'e', 0xe001}, f.Runes())

	_, err = ParseSVGFont([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
	assert.Error(t, err)
}

func TestTTF(t *testing.T) {
	ttf, err := SVGToTTF(sampleFont())
	require.NoError(t, err)
	assert.Equal(t, 0, len(ttf)%4)
	assert.Equal(t, uint32(0xB1B0AFBA), checksum(ttf))
	require.NoError(t, Validate(ttf, 4, []rune{'d', 'e', 0xe001}))

	f, err := sfnt.Parse(ttf)
	require.NoError(t, err)
	b := &sfnt.Buffer{}
	assert.Equal(t, sfnt.Units(1024), f.UnitsPerEm())

	family, err := f.Name(b, sfnt.NameIDFamily)
	require.NoError(t, err)
	assert.Equal(t, "test-font", family)

	home, err := f.GlyphIndex(b, 'd')
	require.NoError(t, err)
	assert.Equal(t, sfnt.GlyphIndex(1), home)

	name, err := f.GlyphName(b, home)
	require.NoError(t, err)
	assert.Equal(t, "home", name)
	name, err = f.GlyphName(b, 3)
	require.NoError(t, err)
	assert.Equal(t, "uniE001", name)

	ppem := fixed.I(1024)
	adv, err := f.GlyphAdvance(b, home, ppem, font.HintingNone)
	require.NoError(t, err)
	assert.Equal(t, fixed.I(1024), adv)

	segs, err := f.LoadGlyph(b, home, ppem, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(segs), 4)
	assert.Equal(t, sfnt.SegmentOpMoveTo, segs[0].Op)
	minX, maxX := segs[0].Args[0].X, segs[0].Args[0].X
	for _, s := range segs {
		if s.Op == sfnt.SegmentOpLineTo || s.Op == sfnt.SegmentOpMoveTo {
			minX = min(minX, s.Args[0].X)
			maxX = max(maxX, s.Args[0].X)
		}
	}
	assert.Equal(t, fixed.I(0), minX)
	assert.Equal(t, fixed.I(1024), maxX)

	ring, err := f.GlyphIndex(b, 'e')
	require.NoError(t, err)
	segs, err = f.LoadGlyph(b, ring, ppem, nil)
	require.NoError(t, err)
	quads := 0
	for _, s := range segs {
		if s.Op == sfnt.SegmentOpQuadTo {
			quads++
		}
	}
	assert.GreaterOrEqual(t, quads, 4)

	again, err := SVGToTTF(sampleFont())
	require.NoError(t, err)
	assert.Equal(t, ttf, again)
}

func TestValidateMismatch(t *testing.T) {
	ttf, err := SVGToTTF(sampleFont())
	require.NoError(t, err)
	assert.Error(t, Validate(ttf, 7, nil))
	assert.Error(t, Validate(ttf, 4, []rune{'z'}))
	assert.Error(t, Validate([]byte("nope"), 4, nil))
}

func TestEOT(t *testing.T) {
	ttf, err := SVGToTTF(sampleFont())
	require.NoError(t, err)
	eot, err := TTFToEOT(ttf)
	require.NoError(t, err)

	le := binary.LittleEndian
	assert.Equal(t, uint32(len(eot)), le.Uint32(eot))
	assert.Equal(t, uint32(len(ttf)), le.Uint32(eot[4:]))
	assert.Equal(t, uint32(eotVersion), le.Uint32(eot[8:]))
	assert.Equal(t, uint32(400), le.Uint32(eot[28:]))
	assert.Equal(t, uint16(eotMagic), le.Uint16(eot[34:]))
	assert.True(t, bytes.HasSuffix(eot, ttf))

	size := int(le.Uint16(eot[82:]))
	assert.Equal(t, utf16LE("test-font"), eot[84:84+size])

	_, err = TTFToEOT([]byte{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	assert.Error(t, err)
}

func TestWOFF(t *testing.T) {
	ttf, err := SVGToTTF(sampleFont())
	require.NoError(t, err)
	woff, err := TTFToWOFF(ttf)
	require.NoError(t, err)

	be := binary.BigEndian
	assert.Equal(t, uint32(woffSignature), be.Uint32(woff))
	assert.Equal(t, uint32(len(woff)), be.Uint32(woff[8:]))
	assert.Equal(t, uint32(len(ttf)), be.Uint32(woff[16:]))

	orig, err := parseSFNT(ttf)
	require.NoError(t, err)
	n := int(be.Uint16(woff[12:]))
	require.Equal(t, len(orig), n)
	for i := 0; i < n; i++ {
		rec := woff[44+20*i:]
		tag := string(rec[:4])
		off, compLen, origLen := be.Uint32(rec[4:]), be.Uint32(rec[8:]), be.Uint32(rec[12:])
		assert.Equal(t, 0, int(off)%4, tag)
		data := woff[off : off+compLen]
		if compLen < origLen {
			zr, err := zlib.NewReader(bytes.NewReader(data))
			require.NoError(t, err)
			data, err = io.ReadAll(zr)
			require.NoError(t, err)
		}
		assert.Equal(t, orig[i].Tag, tag)
		assert.Equal(t, orig[i].Data, data, tag)
		assert.Equal(t, orig[i].Checksum, be.Uint32(rec[16:]), tag)
	}
}

func readBase128(p []byte) (uint32, int) {
	var v uint32
	for i := 0; i < 5 && i < len(p); i++ {
		v = v<<7 | uint32(p[i]&0x7F)
		if p[i]&0x80 == 0 {
			return v, i + 1
		}
	}
	return 0, -1
}

func TestBase128(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 300, 16384, 1<<32 - 1} {
		b := buffer{}
		b.base128(v)
		got, n := readBase128(b)
		assert.Equal(t, len(b), n)
		assert.Equal(t, v, got)
		assert.NotEqual(t, byte(0x80), b[0])
	}
}

func TestWOFF2(t *testing.T) {
	ttf, err := SVGToTTF(sampleFont())
	require.NoError(t, err)
	woff2, err := TTFToWOFF2(ttf)
	require.NoError(t, err)

	be := binary.BigEndian
	assert.Equal(t, uint32(woff2Signature), be.Uint32(woff2))
	assert.Equal(t, uint32(len(woff2)), be.Uint32(woff2[8:]))
	assert.Equal(t, 0, len(woff2)%4)
	assert.Equal(t, uint32(len(ttf)), be.Uint32(woff2[16:]))

	n := int(be.Uint16(woff2[12:]))
	pos := 48
	var tags []string
	var lengths []uint32
	for i := 0; i < n; i++ {
		flags := woff2[pos]
		pos++
		var tag string
		if idx := int(flags & 0x3F); idx == 63 {
			tag = string(woff2[pos : pos+4])
			pos += 4
		} else {
			tag = woff2Tags[idx]
		}
		if tag == "glyf" || tag == "loca" {
			assert.Equal(t, byte(3), flags>>6, tag)
		}
		l, k := readBase128(woff2[pos:])
		require.Positive(t, k)
		pos += k
		tags = append(tags, tag)
		lengths = append(lengths, l)
	}

	compLen := int(be.Uint32(woff2[20:]))
	stream, err := io.ReadAll(brotli.NewReader(bytes.NewReader(woff2[pos : pos+compLen])))
	require.NoError(t, err)

	orig, err := parseSFNT(ttf)
	require.NoError(t, err)
	for i, tag := range tags {
		if tag == "glyf" {
			assert.Equal(t, "loca", tags[i+1])
		}
		data := stream[:lengths[i]]
		stream = stream[lengths[i]:]
		assert.Equal(t, findTable(orig, tag), data, tag)
	}
	assert.Empty(t, stream)
}

func TestEmit(t *testing.T) {
	dir := t.TempDir()
	opts := config.Default()
	opts.Compile.FontName = "test-font"
	opts.Output.Font = filepath.Join(dir, "assets", "fonts")
	opts.Hash.Font = true
	opts.Hash.Len = 8

	log, _ := test.NewNullLogger()
	list, err := Emit(sampleFont(), "abcdef1234567890", &opts, log)
	require.NoError(t, err)

	var names []string
	for _, fn := range list {
		assert.FileExists(t, fn)
		names = append(names, filepath.Base(fn))
	}
	assert.Equal(t, []string{
		"test-font_abcdef12.svg",
		"test-font_abcdef12.ttf",
		"test-font_abcdef12.eot",
		"test-font_abcdef12.woff",
		"test-font_abcdef12.woff2",
	}, names)

	svg, err := os.ReadFile(list[0])
	require.NoError(t, err)
	assert.Equal(t, sampleFont(), svg)
}

func TestEmitWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "fonts")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	opts := config.Default()
	opts.Output.Font = blocker
	log, _ := test.NewNullLogger()
	_, err := Emit(sampleFont(), "abcdef", &opts, log)
	assert.ErrorIs(t, err, ErrWrite)
}
