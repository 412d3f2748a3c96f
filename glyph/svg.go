package glyph

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/adnsv/iconfont/svgpath"
	"golang.org/x/net/html/charset"
)

// Icon is the outline of one SVG icon in its own user space.
type Icon struct {
	ViewBox [4]float64 // min-x, min-y, width, height
	Path    svgpath.Path
}

var errNoViewBox = errors.New("missing viewBox and width/height")

// subtrees that never contribute to the visible outline
var skippedElements = map[string]bool{
	"defs":           true,
	"clipPath":       true,
	"mask":           true,
	"symbol":         true,
	"title":          true,
	"desc":           true,
	"style":          true,
	"metadata":       true,
	"pattern":        true,
	"marker":         true,
	"linearGradient": true,
	"radialGradient": true,
	"script":         true,
}

// ReadIcon collects the filled shapes of an SVG document into a single path.
// Transforms are applied, so the result is expressed in the coordinates of
// the root viewBox.
func ReadIcon(r io.Reader) (*Icon, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity

	icon := &Icon{}
	stack := []svgpath.Matrix{}
	skip := 0
	root := true

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skip > 0 {
				skip++
				continue
			}
			name := t.Name.Local
			if root {
				if name != "svg" {
					return nil, fmt.Errorf("unexpected root element <%s>", name)
				}
				root = false
				vb, err := rootViewBox(t)
				if err != nil {
					return nil, err
				}
				icon.ViewBox = vb
			}
			if skippedElements[name] || hidden(t) {
				skip = 1
				continue
			}

			m := svgpath.Identity
			if len(stack) > 0 {
				m = stack[len(stack)-1]
			}
			if tr := attr(t, "transform"); tr != "" {
				local, err := svgpath.ParseTransform(tr)
				if err != nil {
					return nil, fmt.Errorf("<%s>: %w", name, err)
				}
				m = m.Mul(local)
			}
			if name == "svg" && len(stack) > 0 {
				m = m.Mul(nestedViewport(t))
			}
			stack = append(stack, m)

			shape, err := shapePath(t)
			if err != nil {
				return nil, fmt.Errorf("<%s>: %w", name, err)
			}
			if len(shape) > 0 {
				icon.Path = append(icon.Path, shape.Transform(m)...)
			}

		case xml.EndElement:
			if skip > 0 {
				skip--
				continue
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if root {
		return nil, errors.New("no svg element found")
	}
	return icon, nil
}

func attr(e xml.StartElement, name string) string {
	for _, a := range e.Attr {
		if a.Name.Local == name && a.Name.Space == "" {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

func hidden(e xml.StartElement) bool {
	if attr(e, "display") == "none" {
		return true
	}
	style := strings.ReplaceAll(attr(e, "style"), " ", "")
	return strings.Contains(style, "display:none")
}

// length parses a plain or px length. Relative units are not supported.
func length(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func number(e xml.StartElement, name string) float64 {
	v, _ := length(attr(e, name))
	return v
}

func rootViewBox(e xml.StartElement) ([4]float64, error) {
	if s := attr(e, "viewBox"); s != "" {
		v, err := svgpath.ParseNumbers(s)
		if err != nil {
			return [4]float64{}, fmt.Errorf("invalid viewBox %q: %w", s, err)
		}
		if len(v) != 4 || v[2] <= 0 || v[3] <= 0 {
			return [4]float64{}, fmt.Errorf("invalid viewBox %q", s)
		}
		return [4]float64{v[0], v[1], v[2], v[3]}, nil
	}
	w, okw := length(attr(e, "width"))
	h, okh := length(attr(e, "height"))
	if !okw || !okh || w <= 0 || h <= 0 {
		return [4]float64{}, errNoViewBox
	}
	return [4]float64{0, 0, w, h}, nil
}

// nestedViewport maps the user space of an inner <svg> into its parent.
func nestedViewport(e xml.StartElement) svgpath.Matrix {
	m := svgpath.Translate(number(e, "x"), number(e, "y"))
	vb, err := svgpath.ParseNumbers(attr(e, "viewBox"))
	if err != nil || len(vb) != 4 || vb[2] <= 0 || vb[3] <= 0 {
		return m
	}
	sx, sy := 1.0, 1.0
	if w, ok := length(attr(e, "width")); ok && w > 0 {
		sx = w / vb[2]
	}
	if h, ok := length(attr(e, "height")); ok && h > 0 {
		sy = h / vb[3]
	}
	return m.Mul(svgpath.Scale(sx, sy)).Mul(svgpath.Translate(-vb[0], -vb[1]))
}

func shapePath(e xml.StartElement) (svgpath.Path, error) {
	switch e.Name.Local {
	case "path":
		return svgpath.Parse(attr(e, "d"))
	case "rect":
		rx, okx := length(attr(e, "rx"))
		ry, oky := length(attr(e, "ry"))
		if okx && !oky {
			ry = rx
		} else if oky && !okx {
			rx = ry
		}
		return svgpath.Rect(number(e, "x"), number(e, "y"), number(e, "width"), number(e, "height"), rx, ry), nil
	case "circle":
		r := number(e, "r")
		return svgpath.Ellipse(number(e, "cx"), number(e, "cy"), r, r), nil
	case "ellipse":
		return svgpath.Ellipse(number(e, "cx"), number(e, "cy"), number(e, "rx"), number(e, "ry")), nil
	case "polygon", "polyline":
		pts, err := svgpath.ParseNumbers(attr(e, "points"))
		if err != nil {
			return nil, err
		}
		// polylines are filled as if closed
		return svgpath.Poly(pts, true), nil
	}
	return nil, nil
}
