package fonts

import (
	"fmt"

	"golang.org/x/image/font/sfnt"
)

// Validate parses a TrueType font and checks that it holds numGlyphs glyphs
// and maps every rune to a real glyph.
func Validate(ttf []byte, numGlyphs int, runes []rune) error {
	f, err := sfnt.Parse(ttf)
	if err != nil {
		return fmt.Errorf("invalid truetype font: %w", err)
	}
	if n := f.NumGlyphs(); n != numGlyphs {
		return fmt.Errorf("invalid truetype font: %d glyphs, expected %d", n, numGlyphs)
	}
	b := &sfnt.Buffer{}
	for _, r := range runes {
		x, err := f.GlyphIndex(b, r)
		if err != nil {
			return fmt.Errorf("invalid truetype font: U+%04X: %w", r, err)
		}
		if x == 0 {
			return fmt.Errorf("invalid truetype font: U+%04X is not mapped", r)
		}
	}
	return nil
}
