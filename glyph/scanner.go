// Package glyph scans a directory of SVG icons, assigns code points and
// composes the icons into an SVG font.
package glyph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/adnsv/iconfont/config"
	"github.com/sirupsen/logrus"
)

// ErrNoIcons is returned when the input directory holds no svg files.
var ErrNoIcons = errors.New("no svg files found")

// Glyph records the code point assigned to one icon.
type Glyph struct {
	Name  string `json:"name"`
	Point int    `json:"point"`
	Path  string `json:"path"`
	Hex   string `json:"hex"`
}

// Result is the outcome of a scan: the SVG font document and the glyphs it
// contains, in code point order.
type Result struct {
	Buffer []byte
	Glyphs []Glyph
}

// ListIcons returns the .svg files in dir, sorted by name. Subdirectories are
// not visited.
func ListIcons(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var ret []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".svg" {
			continue
		}
		ret = append(ret, e.Name())
	}
	sort.Strings(ret)
	return ret, nil
}

// Scan assigns startPoint+i to the i-th icon of Input.SvgsDir and composes
// all of them into an SVG font.
func Scan(ctx context.Context, opts *config.Options, log logrus.FieldLogger) (*Result, error) {
	dir := opts.Input.SvgsDir
	names, err := ListIcons(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoIcons, dir)
	}
	log.Infof("scanned a total of %d svg files", len(names))

	buf := bytes.Buffer{}
	comp := NewCompositor(&buf, DefaultCompositorOptions(opts.Compile.FontName), log)
	defer comp.End()

	glyphs := make([]Glyph, 0, len(names))
	seen := map[string]string{}
	for i, fn := range names {
		point := opts.Compile.StartPoint + i
		name := SanitizeName(strings.TrimSuffix(fn, filepath.Ext(fn)))
		if prev, ok := seen[name]; ok {
			log.Warnf("glyph name %q of %s collides with %s", name, fn, prev)
		} else {
			seen[name] = fn
		}

		src := filepath.Join(dir, fn)
		content, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", src, err)
		}

		g := Glyph{
			Name:  name,
			Point: point,
			Path:  src,
			Hex:   strconv.FormatInt(int64(point), 16),
		}
		log.WithField("glyph", name).Debugf("%s -> U+%04X", fn, point)

		err = comp.Write(ctx, Input{
			Name:    name,
			Unicode: []rune{rune(point)},
			Source:  bytes.NewReader(content),
		})
		if err != nil {
			return nil, err
		}
		glyphs = append(glyphs, g)
	}

	comp.End()
	if err := comp.Wait(ctx); err != nil {
		return nil, err
	}
	return &Result{Buffer: buf.Bytes(), Glyphs: glyphs}, nil
}
