// Package fonts transcodes an SVG font into the TrueType, Embedded OpenType,
// WOFF and WOFF2 formats and writes the font files.
package fonts

import (
	"errors"
	"fmt"

	"github.com/adnsv/iconfont/config"
	"github.com/adnsv/iconfont/files"
	"github.com/sirupsen/logrus"
)

// ErrWrite marks a font file that could not be stored.
var ErrWrite = errors.New("failed to write font file")

// Extensions lists the emitted formats in output order.
var Extensions = []string{"svg", "ttf", "eot", "woff", "woff2"}

// Encode derives every font format from the SVG font buffer, keyed by
// extension.
func Encode(svg []byte) (map[string][]byte, error) {
	f, err := ParseSVGFont(svg)
	if err != nil {
		return nil, err
	}
	ttf, err := f.TTF()
	if err != nil {
		return nil, fmt.Errorf("ttf: %w", err)
	}
	if err = Validate(ttf, len(f.Glyphs)+1, f.Runes()); err != nil {
		return nil, err
	}
	eot, err := TTFToEOT(ttf)
	if err != nil {
		return nil, fmt.Errorf("eot: %w", err)
	}
	woff, err := TTFToWOFF(ttf)
	if err != nil {
		return nil, fmt.Errorf("woff: %w", err)
	}
	woff2, err := TTFToWOFF2(ttf)
	if err != nil {
		return nil, fmt.Errorf("woff2: %w", err)
	}
	return map[string][]byte{
		"svg":   svg,
		"ttf":   ttf,
		"eot":   eot,
		"woff":  woff,
		"woff2": woff2,
	}, nil
}

// Emit writes the five font files into Output.Font and returns their paths
// in the order of Extensions.
func Emit(svg []byte, hash string, opts *config.Options, log logrus.FieldLogger) ([]string, error) {
	fonts, err := Encode(svg)
	if err != nil {
		return nil, err
	}
	if err = files.Mkdir(opts.Output.Font); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	ret := make([]string, 0, len(Extensions))
	for _, ext := range Extensions {
		fn := opts.FontFile(ext, hash)
		if err := files.Write(fn, fonts[ext]); err != nil {
			return ret, fmt.Errorf("%w: %s: %v", ErrWrite, fn, err)
		}
		log.Infof("generated %s font file %s", ext, fn)
		ret = append(ret, fn)
	}
	return ret, nil
}
