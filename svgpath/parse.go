package svgpath

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrSyntax = errors.New("invalid path data")

// Parse converts SVG path data into an absolute Path. Relative commands,
// shorthand curves (S, T), H, V and elliptical arcs are resolved; arcs become
// cubic curves.
func Parse(d string) (Path, error) {
	sc := &scanner{s: d}
	path := Path{}

	var (
		cmd       byte
		cur       Point
		start     Point
		lastCtrl  Point
		prevCmd   byte
		needsMove = true
	)

	ensureMove := func() {
		if needsMove {
			path.MoveTo(cur)
			start = cur
			needsMove = false
		}
	}

	for {
		sc.skipSep()
		if sc.eof() {
			break
		}
		pos := sc.i
		if c := sc.peek(); isCommand(c) {
			cmd = c
			sc.i++
		} else if cmd == 0 || cmd == 'Z' || cmd == 'z' {
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, c, pos)
		}

		rel := cmd >= 'a'
		origin := Point{}
		if rel {
			origin = cur
		}

		switch cmd {
		case 'M', 'm':
			p, err := sc.point()
			if err != nil {
				return nil, err
			}
			cur = origin.Add(p)
			start = cur
			path.MoveTo(cur)
			needsMove = false
			// subsequent pairs are implicit line commands
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}

		case 'L', 'l':
			p, err := sc.point()
			if err != nil {
				return nil, err
			}
			ensureMove()
			cur = origin.Add(p)
			path.LineTo(cur)

		case 'H', 'h':
			x, err := sc.number()
			if err != nil {
				return nil, err
			}
			ensureMove()
			if rel {
				x += cur.X
			}
			cur = Point{x, cur.Y}
			path.LineTo(cur)

		case 'V', 'v':
			y, err := sc.number()
			if err != nil {
				return nil, err
			}
			ensureMove()
			if rel {
				y += cur.Y
			}
			cur = Point{cur.X, y}
			path.LineTo(cur)

		case 'C', 'c':
			pts, err := sc.points(3)
			if err != nil {
				return nil, err
			}
			ensureMove()
			c1, c2, p := origin.Add(pts[0]), origin.Add(pts[1]), origin.Add(pts[2])
			path.CubicTo(c1, c2, p)
			lastCtrl, cur = c2, p

		case 'S', 's':
			pts, err := sc.points(2)
			if err != nil {
				return nil, err
			}
			ensureMove()
			c1 := cur
			if isOneOf(prevCmd, "CcSs") {
				c1 = reflect(lastCtrl, cur)
			}
			c2, p := origin.Add(pts[0]), origin.Add(pts[1])
			path.CubicTo(c1, c2, p)
			lastCtrl, cur = c2, p

		case 'Q', 'q':
			pts, err := sc.points(2)
			if err != nil {
				return nil, err
			}
			ensureMove()
			c, p := origin.Add(pts[0]), origin.Add(pts[1])
			path.QuadTo(c, p)
			lastCtrl, cur = c, p

		case 'T', 't':
			p, err := sc.point()
			if err != nil {
				return nil, err
			}
			ensureMove()
			c := cur
			if isOneOf(prevCmd, "QqTt") {
				c = reflect(lastCtrl, cur)
			}
			p = origin.Add(p)
			path.QuadTo(c, p)
			lastCtrl, cur = c, p

		case 'A', 'a':
			rx, err := sc.number()
			if err != nil {
				return nil, err
			}
			ry, err := sc.number()
			if err != nil {
				return nil, err
			}
			phi, err := sc.number()
			if err != nil {
				return nil, err
			}
			large, err := sc.flag()
			if err != nil {
				return nil, err
			}
			sweep, err := sc.flag()
			if err != nil {
				return nil, err
			}
			p, err := sc.point()
			if err != nil {
				return nil, err
			}
			ensureMove()
			p = origin.Add(p)
			path = append(path, arcToCubics(cur, rx, ry, phi, large, sweep, p)...)
			cur = p

		case 'Z', 'z':
			if !needsMove {
				path.Close()
			}
			cur = start
			needsMove = true

		default:
			return nil, fmt.Errorf("%w: unknown command %q", ErrSyntax, cmd)
		}
		prevCmd = cmd
	}
	return path, nil
}

func isCommand(c byte) bool {
	return isOneOf(c, "MmZzLlHhVvCcSsQqTtAa")
}

func isOneOf(c byte, set string) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}

func reflect(ctrl, around Point) Point {
	return Point{2*around.X - ctrl.X, 2*around.Y - ctrl.Y}
}

type scanner struct {
	s string
	i int
}

func (sc *scanner) eof() bool  { return sc.i >= len(sc.s) }
func (sc *scanner) peek() byte { return sc.s[sc.i] }

func (sc *scanner) skipSep() {
	for !sc.eof() {
		switch sc.peek() {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.i++
		default:
			return
		}
	}
}

func (sc *scanner) number() (float64, error) {
	sc.skipSep()
	b := sc.i
	if !sc.eof() && (sc.peek() == '+' || sc.peek() == '-') {
		sc.i++
	}
	digits := 0
	for !sc.eof() && isDigit(sc.peek()) {
		sc.i++
		digits++
	}
	if !sc.eof() && sc.peek() == '.' {
		sc.i++
		for !sc.eof() && isDigit(sc.peek()) {
			sc.i++
			digits++
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("%w: number expected at offset %d", ErrSyntax, b)
	}
	if !sc.eof() && (sc.peek() == 'e' || sc.peek() == 'E') {
		save := sc.i
		sc.i++
		if !sc.eof() && (sc.peek() == '+' || sc.peek() == '-') {
			sc.i++
		}
		exp := 0
		for !sc.eof() && isDigit(sc.peek()) {
			sc.i++
			exp++
		}
		if exp == 0 {
			sc.i = save
		}
	}
	v, err := strconv.ParseFloat(sc.s[b:sc.i], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return v, nil
}

// flag reads an arc flag, which may be written without a separator.
func (sc *scanner) flag() (bool, error) {
	sc.skipSep()
	if sc.eof() {
		return false, fmt.Errorf("%w: flag expected at offset %d", ErrSyntax, sc.i)
	}
	switch sc.peek() {
	case '0':
		sc.i++
		return false, nil
	case '1':
		sc.i++
		return true, nil
	}
	return false, fmt.Errorf("%w: flag expected at offset %d", ErrSyntax, sc.i)
}

func (sc *scanner) point() (Point, error) {
	x, err := sc.number()
	if err != nil {
		return Point{}, err
	}
	y, err := sc.number()
	if err != nil {
		return Point{}, err
	}
	return Point{x, y}, nil
}

func (sc *scanner) points(n int) ([]Point, error) {
	ret := make([]Point, n)
	for i := range ret {
		p, err := sc.point()
		if err != nil {
			return nil, err
		}
		ret[i] = p
	}
	return ret, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// ParseNumbers reads a whitespace/comma separated list of numbers, as used by
// polygon points and viewBox attributes.
func ParseNumbers(s string) ([]float64, error) {
	sc := &scanner{s: s}
	var ret []float64
	for {
		sc.skipSep()
		if sc.eof() {
			return ret, nil
		}
		v, err := sc.number()
		if err != nil {
			return nil, err
		}
		ret = append(ret, v)
	}
}
