// Package svgpath parses SVG path data into absolute outline segments and
// provides the geometry helpers needed to turn icon shapes into font glyphs.
package svgpath

import (
	"math"
	"strconv"
	"strings"
)

type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point             { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point             { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(k float64) Point         { return Point{p.X * k, p.Y * k} }
func (p Point) Len() float64                  { return math.Hypot(p.X, p.Y) }
func (p Point) Lerp(q Point, t float64) Point { return p.Add(q.Sub(p).Scale(t)) }

// Op is the type of a path segment.
type Op uint8

const (
	MoveTo Op = iota
	LineTo
	QuadTo
	CubicTo
	Close
)

func (op Op) String() string {
	switch op {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	case QuadTo:
		return "QuadTo"
	case CubicTo:
		return "CubicTo"
	case Close:
		return "Close"
	default:
		return "Unknown"
	}
}

// Segment is one absolute path command.
//   - MoveTo, LineTo: Points[0] is the target
//   - QuadTo: Points[0] is the control, Points[1] the target
//   - CubicTo: Points[0], Points[1] are controls, Points[2] the target
//   - Close: no points
type Segment struct {
	Op     Op
	Points [3]Point
}

// End returns the point the segment finishes at. Close has no end point of
// its own.
func (s Segment) End() Point {
	switch s.Op {
	case QuadTo:
		return s.Points[1]
	case CubicTo:
		return s.Points[2]
	default:
		return s.Points[0]
	}
}

func (s Segment) numPoints() int {
	switch s.Op {
	case MoveTo, LineTo:
		return 1
	case QuadTo:
		return 2
	case CubicTo:
		return 3
	}
	return 0
}

// Path is a sequence of absolute segments. Every subpath starts with MoveTo.
type Path []Segment

func (p *Path) MoveTo(pt Point) { *p = append(*p, Segment{Op: MoveTo, Points: [3]Point{pt}}) }
func (p *Path) LineTo(pt Point) { *p = append(*p, Segment{Op: LineTo, Points: [3]Point{pt}}) }
func (p *Path) QuadTo(c, pt Point) {
	*p = append(*p, Segment{Op: QuadTo, Points: [3]Point{c, pt}})
}
func (p *Path) CubicTo(c1, c2, pt Point) {
	*p = append(*p, Segment{Op: CubicTo, Points: [3]Point{c1, c2, pt}})
}
func (p *Path) Close() { *p = append(*p, Segment{Op: Close}) }

// Transform returns a copy of the path with m applied to every point.
func (p Path) Transform(m Matrix) Path {
	ret := make(Path, len(p))
	for i, s := range p {
		for j := 0; j < s.numPoints(); j++ {
			s.Points[j] = m.Apply(s.Points[j])
		}
		ret[i] = s
	}
	return ret
}

// Bounds returns the bounding box of all points, control points included.
func (p Path) Bounds() (min, max Point, ok bool) {
	min = Point{math.Inf(1), math.Inf(1)}
	max = Point{math.Inf(-1), math.Inf(-1)}
	for _, s := range p {
		for j := 0; j < s.numPoints(); j++ {
			pt := s.Points[j]
			min.X = math.Min(min.X, pt.X)
			min.Y = math.Min(min.Y, pt.Y)
			max.X = math.Max(max.X, pt.X)
			max.Y = math.Max(max.Y, pt.Y)
			ok = true
		}
	}
	return
}

// Format serializes the path in compact absolute SVG syntax, rounding every
// coordinate to the given number of decimals.
func (p Path) Format(decimals int) string {
	sb := strings.Builder{}
	num := func(v float64) {
		sb.WriteString(FormatNumber(v, decimals))
	}
	pt := func(q Point) {
		num(q.X)
		sb.WriteByte(' ')
		num(q.Y)
	}
	for _, s := range p {
		switch s.Op {
		case MoveTo:
			sb.WriteByte('M')
			pt(s.Points[0])
		case LineTo:
			sb.WriteByte('L')
			pt(s.Points[0])
		case QuadTo:
			sb.WriteByte('Q')
			pt(s.Points[0])
			sb.WriteByte(' ')
			pt(s.Points[1])
		case CubicTo:
			sb.WriteByte('C')
			pt(s.Points[0])
			sb.WriteByte(' ')
			pt(s.Points[1])
			sb.WriteByte(' ')
			pt(s.Points[2])
		case Close:
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

// FormatNumber rounds v to the given number of decimals and prints it
// without trailing zeros.
func FormatNumber(v float64, decimals int) string {
	f := math.Pow(10, float64(decimals))
	v = math.Round(v*f) / f
	if v == 0 {
		v = 0 // drops the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
