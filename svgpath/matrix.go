package svgpath

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Matrix is an affine transform [a b c d e f] mapping (x, y) to
// (a*x + c*y + e, b*x + d*y + f), as in the SVG transform attribute.
type Matrix [6]float64

var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Mul returns m*n: the transform that applies n first, then m.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		m[0]*n[0] + m[2]*n[1],
		m[1]*n[0] + m[3]*n[1],
		m[0]*n[2] + m[2]*n[3],
		m[1]*n[2] + m[3]*n[3],
		m[0]*n[4] + m[2]*n[5] + m[4],
		m[1]*n[4] + m[3]*n[5] + m[5],
	}
}

func (m Matrix) Apply(p Point) Point {
	return Point{
		m[0]*p.X + m[2]*p.Y + m[4],
		m[1]*p.X + m[3]*p.Y + m[5],
	}
}

func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }
func Scale(sx, sy float64) Matrix     { return Matrix{sx, 0, 0, sy, 0, 0} }

func Rotate(deg float64) Matrix {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Matrix{c, s, -s, c, 0, 0}
}

var reTransform = regexp.MustCompile(`([A-Za-z]+)\s*\(([^)]*)\)`)

// ParseTransform parses an SVG transform list such as
// "translate(10 20) rotate(45)".
func ParseTransform(s string) (Matrix, error) {
	m := Identity
	if strings.TrimSpace(s) == "" {
		return m, nil
	}
	for _, match := range reTransform.FindAllStringSubmatch(s, -1) {
		args, err := ParseNumbers(match[2])
		if err != nil {
			return m, err
		}
		arg := func(i int, def float64) float64 {
			if i < len(args) {
				return args[i]
			}
			return def
		}

		var t Matrix
		switch match[1] {
		case "matrix":
			if len(args) != 6 {
				return m, fmt.Errorf("matrix() expects 6 arguments, got %d", len(args))
			}
			copy(t[:], args)
		case "translate":
			t = Translate(arg(0, 0), arg(1, 0))
		case "scale":
			sx := arg(0, 1)
			t = Scale(sx, arg(1, sx))
		case "rotate":
			cx, cy := arg(1, 0), arg(2, 0)
			t = Translate(cx, cy).Mul(Rotate(arg(0, 0))).Mul(Translate(-cx, -cy))
		case "skewX":
			t = Matrix{1, 0, math.Tan(arg(0, 0) * math.Pi / 180), 1, 0, 0}
		case "skewY":
			t = Matrix{1, math.Tan(arg(0, 0) * math.Pi / 180), 0, 1, 0, 0}
		default:
			return m, fmt.Errorf("unsupported transform %q", match[1])
		}
		m = m.Mul(t)
	}
	return m, nil
}
