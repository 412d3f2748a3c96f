package fonts

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/net/html/charset"
)

// SVGFont is the content of an SVG font document.
type SVGFont struct {
	ID         string
	Family     string
	UnitsPerEm int
	Ascent     int
	Descent    int // negative below the baseline
	Weight     int
	Advance    int // default horizontal advance

	MissingAdvance int
	Glyphs         []SVGGlyph
}

type SVGGlyph struct {
	Name    string
	Unicode []rune
	Advance int
	D       string
}

type svgDocument struct {
	Font struct {
		ID        string  `xml:"id,attr"`
		HorizAdvX float64 `xml:"horiz-adv-x,attr"`
		Face      struct {
			Family     string  `xml:"font-family,attr"`
			UnitsPerEm float64 `xml:"units-per-em,attr"`
			Ascent     float64 `xml:"ascent,attr"`
			Descent    float64 `xml:"descent,attr"`
			Weight     string  `xml:"font-weight,attr"`
		} `xml:"font-face"`
		Missing struct {
			HorizAdvX float64 `xml:"horiz-adv-x,attr"`
		} `xml:"missing-glyph"`
		Glyphs []struct {
			Name      string   `xml:"glyph-name,attr"`
			Unicode   string   `xml:"unicode,attr"`
			HorizAdvX *float64 `xml:"horiz-adv-x,attr"`
			D         string   `xml:"d,attr"`
		} `xml:"glyph"`
	} `xml:"defs>font"`
}

var errNoFont = errors.New("svg document holds no font")

// ParseSVGFont reads an SVG font document.
func ParseSVGFont(buf []byte) (*SVGFont, error) {
	doc := svgDocument{}
	dec := xml.NewDecoder(bytes.NewReader(buf))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing svg font: %w", err)
	}
	f := doc.Font
	if f.ID == "" && f.Face.Family == "" && len(f.Glyphs) == 0 {
		return nil, errNoFont
	}

	ret := &SVGFont{
		ID:             f.ID,
		Family:         f.Face.Family,
		UnitsPerEm:     round(f.Face.UnitsPerEm),
		Ascent:         round(f.Face.Ascent),
		Descent:        round(f.Face.Descent),
		Advance:        round(f.HorizAdvX),
		MissingAdvance: round(f.Missing.HorizAdvX),
		Weight:         400,
	}
	if ret.Family == "" {
		ret.Family = ret.ID
	}
	if ret.UnitsPerEm <= 0 {
		ret.UnitsPerEm = 1000
	}
	if ret.Ascent == 0 && ret.Descent == 0 {
		ret.Ascent = ret.UnitsPerEm
	}
	if w := fontWeight(f.Face.Weight); w > 0 {
		ret.Weight = w
	}

	for _, g := range f.Glyphs {
		sg := SVGGlyph{
			Name:    g.Name,
			Unicode: []rune(g.Unicode),
			Advance: ret.Advance,
			D:       g.D,
		}
		if g.HorizAdvX != nil {
			sg.Advance = round(*g.HorizAdvX)
		}
		ret.Glyphs = append(ret.Glyphs, sg)
	}
	return ret, nil
}

// Runes lists every code point mapped by the font, in ascending order.
func (f *SVGFont) Runes() []rune {
	seen := map[rune]bool{}
	var ret []rune
	for _, g := range f.Glyphs {
		for _, r := range g.Unicode {
			if !seen[r] {
				seen[r] = true
				ret = append(ret, r)
			}
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

func round(v float64) int {
	return int(math.Round(v))
}

func fontWeight(s string) int {
	switch s {
	case "normal":
		return 400
	case "bold":
		return 700
	}
	w := 0
	if _, err := fmt.Sscanf(s, "%d", &w); err != nil {
		return 0
	}
	return w
}
