package fonts

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/adnsv/iconfont/svgpath"
)

// tolerance of the cubic to quadratic conversion, in font units
const curveTolerance = 0.5

// seconds between 1904-01-01 and 2000-01-01, used as the fixed creation and
// modification time so that identical input yields identical fonts
const fontTimestamp = 3029529600

const fontVersion = "Version 1.0"

type ttPoint struct {
	X, Y int
	On   bool
}

type ttGlyph struct {
	name     string
	advance  int
	contours [][]ttPoint

	xMin, yMin, xMax, yMax int
}

func (g *ttGlyph) numPoints() int {
	n := 0
	for _, c := range g.contours {
		n += len(c)
	}
	return n
}

// SVGToTTF converts an SVG font document into a TrueType font.
func SVGToTTF(buf []byte) ([]byte, error) {
	f, err := ParseSVGFont(buf)
	if err != nil {
		return nil, err
	}
	return f.TTF()
}

// TTF builds a TrueType font with one glyph per SVG glyph, preceded by
// .notdef.
func (f *SVGFont) TTF() ([]byte, error) {
	glyphs := []*ttGlyph{{name: ".notdef", advance: f.MissingAdvance}}
	cmap := map[rune]int{}
	for i, sg := range f.Glyphs {
		path, err := svgpath.Parse(sg.D)
		if err != nil {
			return nil, fmt.Errorf("glyph %q: %w", sg.Name, err)
		}
		g := &ttGlyph{
			name:     sg.Name,
			advance:  sg.Advance,
			contours: toContours(path),
		}
		g.bounds()
		glyphs = append(glyphs, g)
		for _, r := range sg.Unicode {
			if _, dup := cmap[r]; !dup {
				cmap[r] = i + 1
			}
		}
	}

	glyf, loca := buildGlyf(glyphs)
	tables := []table{
		{Tag: "OS/2", Data: f.buildOS2(glyphs, cmap)},
		{Tag: "cmap", Data: buildCmap(cmap)},
		{Tag: "glyf", Data: glyf},
		{Tag: "head", Data: f.buildHead(glyphs)},
		{Tag: "hhea", Data: f.buildHhea(glyphs)},
		{Tag: "hmtx", Data: buildHmtx(glyphs)},
		{Tag: "loca", Data: loca},
		{Tag: "maxp", Data: buildMaxp(glyphs)},
		{Tag: "name", Data: f.buildName()},
		{Tag: "post", Data: buildPost(glyphs, cmap)},
	}
	return assemble(tables), nil
}

func toContours(p svgpath.Path) [][]ttPoint {
	var ret [][]ttPoint
	var cur []ttPoint
	var at svgpath.Point

	pt := func(p svgpath.Point, on bool) ttPoint {
		return ttPoint{X: clamp16(p.X), Y: clamp16(p.Y), On: on}
	}
	flush := func() {
		if c := cleanContour(cur); len(c) >= 3 {
			ret = append(ret, c)
		}
		cur = nil
	}

	for _, s := range p {
		switch s.Op {
		case svgpath.MoveTo:
			flush()
			cur = append(cur, pt(s.Points[0], true))
		case svgpath.LineTo:
			cur = append(cur, pt(s.Points[0], true))
		case svgpath.QuadTo:
			cur = append(cur, pt(s.Points[0], false), pt(s.Points[1], true))
		case svgpath.CubicTo:
			for _, q := range svgpath.CubicToQuads(at, s.Points[0], s.Points[1], s.Points[2], curveTolerance) {
				cur = append(cur, pt(q[0], false), pt(q[1], true))
			}
		case svgpath.Close:
			flush()
		}
		if s.Op != svgpath.Close {
			at = s.End()
		}
	}
	flush()
	return ret
}

// cleanContour drops repeated on-curve points and the closing point when it
// duplicates the first one.
func cleanContour(c []ttPoint) []ttPoint {
	ret := make([]ttPoint, 0, len(c))
	for _, p := range c {
		if n := len(ret); n > 0 && p.On && ret[n-1].On && ret[n-1] == p {
			continue
		}
		ret = append(ret, p)
	}
	if n := len(ret); n > 1 && ret[0] == ret[n-1] {
		ret = ret[:n-1]
	}
	return ret
}

func clamp16(v float64) int {
	v = math.Round(v)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int(v)
}

func (g *ttGlyph) bounds() {
	first := true
	for _, c := range g.contours {
		for _, p := range c {
			if first {
				g.xMin, g.xMax, g.yMin, g.yMax = p.X, p.X, p.Y, p.Y
				first = false
				continue
			}
			g.xMin = min(g.xMin, p.X)
			g.xMax = max(g.xMax, p.X)
			g.yMin = min(g.yMin, p.Y)
			g.yMax = max(g.yMax, p.Y)
		}
	}
}

// simple glyph flags
const (
	flagOnCurve = 0x01
	flagXShort  = 0x02
	flagYShort  = 0x04
	flagXSame   = 0x10 // or positive short x
	flagYSame   = 0x20 // or positive short y
)

func encodeGlyph(g *ttGlyph) []byte {
	if len(g.contours) == 0 {
		return nil
	}
	out := buffer{}
	out.i16(int16(len(g.contours)))
	out.i16(int16(g.xMin))
	out.i16(int16(g.yMin))
	out.i16(int16(g.xMax))
	out.i16(int16(g.yMax))
	end := -1
	for _, c := range g.contours {
		end += len(c)
		out.u16(uint16(end))
	}
	out.u16(0) // no instructions

	var flags, xs, ys buffer
	coord := func(d int, short, same uint8, dst *buffer) uint8 {
		switch {
		case d == 0:
			return same
		case d > -256 && d < 256:
			if d > 0 {
				dst.u8(uint8(d))
				return short | same
			}
			dst.u8(uint8(-d))
			return short
		default:
			dst.i16(int16(d))
			return 0
		}
	}
	px, py := 0, 0
	for _, c := range g.contours {
		for _, p := range c {
			var fl uint8
			if p.On {
				fl |= flagOnCurve
			}
			fl |= coord(p.X-px, flagXShort, flagXSame, &xs)
			fl |= coord(p.Y-py, flagYShort, flagYSame, &ys)
			flags.u8(fl)
			px, py = p.X, p.Y
		}
	}
	out.bytes(flags)
	out.bytes(xs)
	out.bytes(ys)
	out.pad4()
	return out
}

func buildGlyf(glyphs []*ttGlyph) (glyf, loca []byte) {
	g := buffer{}
	l := buffer{}
	for _, gl := range glyphs {
		l.u32(uint32(len(g)))
		g.bytes(encodeGlyph(gl))
	}
	l.u32(uint32(len(g)))
	return g, l
}

func fontBounds(glyphs []*ttGlyph) (xMin, yMin, xMax, yMax int) {
	first := true
	for _, g := range glyphs {
		if len(g.contours) == 0 {
			continue
		}
		if first {
			xMin, yMin, xMax, yMax = g.xMin, g.yMin, g.xMax, g.yMax
			first = false
			continue
		}
		xMin = min(xMin, g.xMin)
		yMin = min(yMin, g.yMin)
		xMax = max(xMax, g.xMax)
		yMax = max(yMax, g.yMax)
	}
	return
}

func (f *SVGFont) buildHead(glyphs []*ttGlyph) []byte {
	xMin, yMin, xMax, yMax := fontBounds(glyphs)
	b := buffer{}
	b.u32(0x00010000) // version
	b.u32(0x00010000) // fontRevision
	b.u32(0)          // checkSumAdjustment
	b.u32(0x5F0F3CF5) // magicNumber
	b.u16(0x000B)     // baseline at y=0, lsb at x=0, integer ppem
	b.u16(uint16(f.UnitsPerEm))
	b.i64(fontTimestamp)
	b.i64(fontTimestamp)
	b.i16(int16(xMin))
	b.i16(int16(yMin))
	b.i16(int16(xMax))
	b.i16(int16(yMax))
	b.u16(0) // macStyle
	b.u16(8) // lowestRecPPEM
	b.i16(2) // fontDirectionHint
	b.i16(1) // long loca offsets
	b.i16(0) // glyphDataFormat
	return b
}

func (f *SVGFont) buildHhea(glyphs []*ttGlyph) []byte {
	maxAdv, minLSB, minRSB, maxExtent := 0, 0, 0, 0
	first := true
	for _, g := range glyphs {
		maxAdv = max(maxAdv, g.advance)
		if len(g.contours) == 0 {
			continue
		}
		lsb, rsb, ext := g.xMin, g.advance-g.xMax, g.xMax
		if first {
			minLSB, minRSB, maxExtent = lsb, rsb, ext
			first = false
			continue
		}
		minLSB = min(minLSB, lsb)
		minRSB = min(minRSB, rsb)
		maxExtent = max(maxExtent, ext)
	}

	b := buffer{}
	b.u32(0x00010000)
	b.i16(int16(f.Ascent))
	b.i16(int16(f.Descent))
	b.i16(0) // lineGap
	b.u16(uint16(maxAdv))
	b.i16(int16(minLSB))
	b.i16(int16(minRSB))
	b.i16(int16(maxExtent))
	b.i16(1) // caretSlopeRise
	b.i16(0) // caretSlopeRun
	b.i16(0) // caretOffset
	for i := 0; i < 4; i++ {
		b.i16(0)
	}
	b.i16(0) // metricDataFormat
	b.u16(uint16(len(glyphs)))
	return b
}

func buildHmtx(glyphs []*ttGlyph) []byte {
	b := buffer{}
	for _, g := range glyphs {
		b.u16(uint16(g.advance))
		b.i16(int16(g.xMin))
	}
	return b
}

func buildMaxp(glyphs []*ttGlyph) []byte {
	maxPoints, maxContours := 0, 0
	for _, g := range glyphs {
		maxPoints = max(maxPoints, g.numPoints())
		maxContours = max(maxContours, len(g.contours))
	}
	b := buffer{}
	b.u32(0x00010000)
	b.u16(uint16(len(glyphs)))
	b.u16(uint16(maxPoints))
	b.u16(uint16(maxContours))
	b.u16(0) // maxCompositePoints
	b.u16(0) // maxCompositeContours
	b.u16(2) // maxZones
	for i := 0; i < 8; i++ {
		b.u16(0)
	}
	return b
}

type cmapRange struct {
	start, end rune
	glyph      int
}

// ranges groups consecutive code points that map to consecutive glyphs.
func cmapRanges(cmap map[rune]int) []cmapRange {
	runes := make([]rune, 0, len(cmap))
	for r := range cmap {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	var ret []cmapRange
	for _, r := range runes {
		g := cmap[r]
		if n := len(ret); n > 0 {
			last := &ret[n-1]
			if r == last.end+1 && g == last.glyph+int(r-last.start) {
				last.end = r
				continue
			}
		}
		ret = append(ret, cmapRange{start: r, end: r, glyph: g})
	}
	return ret
}

func buildCmap(cmap map[rune]int) []byte {
	ranges := cmapRanges(cmap)
	f4 := cmapFormat4(ranges)
	f12 := cmapFormat12(ranges)

	b := buffer{}
	b.u16(0) // version
	b.u16(3)
	off4 := uint32(4 + 3*8)
	off12 := off4 + uint32(len(f4))
	b.u16(0) // unicode
	b.u16(3)
	b.u32(off4)
	b.u16(3) // windows, unicode BMP
	b.u16(1)
	b.u32(off4)
	b.u16(3) // windows, unicode full
	b.u16(10)
	b.u32(off12)
	b.bytes(f4)
	b.bytes(f12)
	return b
}

func cmapFormat4(ranges []cmapRange) []byte {
	var segs []cmapRange
	for _, r := range ranges {
		if r.start > 0xFFFE {
			break
		}
		if r.end > 0xFFFE {
			r.end = 0xFFFE
		}
		segs = append(segs, r)
	}
	// mandatory final segment
	segs = append(segs, cmapRange{start: 0xFFFF, end: 0xFFFF, glyph: 0})

	n := len(segs)
	b := buffer{}
	b.u16(4)
	b.u16(uint16(16 + 8*n))
	b.u16(0) // language
	b.u16(uint16(2 * n))
	sr, es, rs := searchParams(n, 2)
	b.u16(sr)
	b.u16(es)
	b.u16(rs)
	for _, s := range segs {
		b.u16(uint16(s.end))
	}
	b.u16(0) // reservedPad
	for _, s := range segs {
		b.u16(uint16(s.start))
	}
	for _, s := range segs {
		delta := s.glyph - int(s.start)
		if s.start == 0xFFFF {
			delta = 1
		}
		b.u16(uint16(delta))
	}
	for range segs {
		b.u16(0) // idRangeOffset
	}
	return b
}

func cmapFormat12(ranges []cmapRange) []byte {
	b := buffer{}
	b.u16(12)
	b.u16(0)
	b.u32(uint32(16 + 12*len(ranges)))
	b.u32(0) // language
	b.u32(uint32(len(ranges)))
	for _, r := range ranges {
		b.u32(uint32(r.start))
		b.u32(uint32(r.end))
		b.u32(uint32(r.glyph))
	}
	return b
}

func (f *SVGFont) buildOS2(glyphs []*ttGlyph, cmap map[rune]int) []byte {
	avg, n := 0, 0
	for _, g := range glyphs[1:] {
		if g.advance > 0 {
			avg += g.advance
			n++
		}
	}
	if n > 0 {
		avg /= n
	}

	first, last := rune(0xFFFF), rune(0)
	var pua bool
	for r := range cmap {
		first = min(first, r)
		last = max(last, r)
		if r >= 0xE000 && r <= 0xF8FF {
			pua = true
		}
	}
	if len(cmap) == 0 {
		first = 0
	}
	last = min(last, 0xFFFF)

	em := f.UnitsPerEm
	b := buffer{}
	b.u16(4) // version
	b.i16(int16(avg))
	b.u16(uint16(f.Weight))
	b.u16(5) // usWidthClass: medium
	b.u16(0) // fsType: installable
	b.i16(int16(em * 65 / 100))
	b.i16(int16(em * 60 / 100))
	b.i16(0)
	b.i16(int16(em * 7 / 100))
	b.i16(int16(em * 65 / 100))
	b.i16(int16(em * 60 / 100))
	b.i16(0)
	b.i16(int16(em * 35 / 100))
	b.i16(int16(em * 5 / 100))  // yStrikeoutSize
	b.i16(int16(em * 26 / 100)) // yStrikeoutPosition
	b.i16(0)                    // sFamilyClass
	b.bytes(make([]byte, 10))   // panose
	var ur2 uint32
	if pua {
		ur2 = 1 << 28 // bit 60: private use area
	}
	b.u32(0)
	b.u32(ur2)
	b.u32(0)
	b.u32(0)
	b.tag("NONE")
	b.u16(0x0040) // fsSelection: regular
	b.u16(uint16(first))
	b.u16(uint16(last))
	b.i16(int16(f.Ascent))
	b.i16(int16(f.Descent))
	b.i16(0) // sTypoLineGap
	_, yMin, _, yMax := fontBounds(glyphs)
	b.u16(uint16(max(f.Ascent, yMax)))
	b.u16(uint16(max(-f.Descent, -yMin)))
	b.u32(1) // ulCodePageRange1: latin 1
	b.u32(0)
	b.i16(0) // sxHeight
	b.i16(0) // sCapHeight
	b.u16(0) // usDefaultChar
	b.u16(32)
	b.u16(0) // usMaxContext
	return b
}

type nameRecord struct {
	platform, encoding, language, id uint16
	value                            []byte
}

func (f *SVGFont) nameStrings() map[uint16]string {
	family := f.Family
	if family == "" {
		family = "iconfont"
	}
	return map[uint16]string{
		1: family,
		2: "Regular",
		3: family + ":" + fontVersion,
		4: family,
		5: fontVersion,
		6: postscriptName(family),
	}
}

func (f *SVGFont) buildName() []byte {
	strs := f.nameStrings()
	var recs []nameRecord
	for id := uint16(1); id <= 6; id++ {
		recs = append(recs, nameRecord{1, 0, 0, id, macRoman(strs[id])})
	}
	for id := uint16(1); id <= 6; id++ {
		recs = append(recs, nameRecord{3, 1, 0x409, id, utf16BE(strs[id])})
	}

	b := buffer{}
	b.u16(0) // format
	b.u16(uint16(len(recs)))
	b.u16(uint16(6 + 12*len(recs)))
	off := 0
	for _, r := range recs {
		b.u16(r.platform)
		b.u16(r.encoding)
		b.u16(r.language)
		b.u16(r.id)
		b.u16(uint16(len(r.value)))
		b.u16(uint16(off))
		off += len(r.value)
	}
	for _, r := range recs {
		b.bytes(r.value)
	}
	return b
}

func macRoman(s string) []byte {
	ret := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x80 {
			ret = append(ret, byte(r))
		} else {
			ret = append(ret, '?')
		}
	}
	return ret
}

func utf16BE(s string) []byte {
	b := buffer{}
	for _, u := range utf16.Encode([]rune(s)) {
		b.u16(u)
	}
	return b
}

func postscriptName(s string) string {
	sb := strings.Builder{}
	for _, r := range s {
		if r > 32 && r < 127 && !strings.ContainsRune("[](){}<>/%", r) {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "iconfont"
	}
	return sb.String()
}

// glyphName returns a valid post table name for g.
func glyphName(g *ttGlyph, index int, cmap map[rune]int) string {
	ok := g.name != "" && len(g.name) < 64
	for _, r := range g.name {
		if r <= 32 || r >= 127 {
			ok = false
			break
		}
	}
	if ok {
		return g.name
	}
	var code rune = -1
	for r, i := range cmap {
		if i == index && (code < 0 || r < code) {
			code = r
		}
	}
	if code >= 0 && code <= 0xFFFF {
		return fmt.Sprintf("uni%04X", code)
	} else if code > 0xFFFF {
		return fmt.Sprintf("u%X", code)
	}
	return fmt.Sprintf("glyph%d", index)
}

func buildPost(glyphs []*ttGlyph, cmap map[rune]int) []byte {
	b := buffer{}
	b.u32(0x00020000)
	b.u32(0)   // italicAngle
	b.i16(-75) // underlinePosition
	b.i16(50)  // underlineThickness
	b.u32(0)   // isFixedPitch
	for i := 0; i < 4; i++ {
		b.u32(0)
	}
	b.u16(uint16(len(glyphs)))

	var names buffer
	custom := 0
	for i, g := range glyphs {
		if i == 0 {
			b.u16(0) // .notdef
			continue
		}
		name := glyphName(g, i, cmap)
		b.u16(uint16(258 + custom))
		names.u8(uint8(len(name)))
		names.bytes([]byte(name))
		custom++
	}
	b.bytes(names)
	return b
}
