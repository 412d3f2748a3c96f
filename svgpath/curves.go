package svgpath

import "math"

// arcToCubics converts an SVG elliptical arc from p0 to p1 into cubic
// segments of at most 90 degrees each.
func arcToCubics(p0 Point, rx, ry, phiDeg float64, large, sweep bool, p1 Point) []Segment {
	if p0 == p1 {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return []Segment{{Op: LineTo, Points: [3]Point{p1}}}
	}

	sinPhi, cosPhi := math.Sincos(phiDeg * math.Pi / 180)
	dx2, dy2 := (p0.X-p1.X)/2, (p0.Y-p1.Y)/2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	// scale radii up when they cannot span the endpoints
	if lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	rx2, ry2 := rx*rx, ry*ry
	num := rx2*ry2 - rx2*y1p*y1p - ry2*x1p*x1p
	den := rx2*y1p*y1p + ry2*x1p*x1p
	coef := 0.0
	if num > 0 && den > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx
	cx := cosPhi*cxp - sinPhi*cyp + (p0.X+p1.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (p0.Y+p1.Y)/2

	u := Point{(x1p - cxp) / rx, (y1p - cyp) / ry}
	v := Point{(-x1p - cxp) / rx, (-y1p - cyp) / ry}
	theta := angle(Point{1, 0}, u)
	delta := angle(u, v)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	toUser := func(ux, uy float64) Point {
		x, y := rx*ux, ry*uy
		return Point{cx + x*cosPhi - y*sinPhi, cy + x*sinPhi + y*cosPhi}
	}

	ret := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		t1 := theta + float64(i)*step
		t2 := t1 + step
		s1, c1 := math.Sincos(t1)
		s2, c2 := math.Sincos(t2)
		end := toUser(c2, s2)
		if i == n-1 {
			end = p1
		}
		ret = append(ret, Segment{Op: CubicTo, Points: [3]Point{
			toUser(c1-k*s1, s1+k*c1),
			toUser(c2+k*s2, s2-k*c2),
			end,
		}})
	}
	return ret
}

func angle(u, v Point) float64 {
	return math.Atan2(u.X*v.Y-u.Y*v.X, u.X*v.X+u.Y*v.Y)
}

// CubicToQuads approximates a cubic curve with quadratic segments so that the
// estimated deviation stays within tolerance. Each returned pair is
// (control, end).
func CubicToQuads(p0, c1, c2, p3 Point, tolerance float64) [][2]Point {
	d := p3.Sub(c2.Scale(3)).Add(c1.Scale(3)).Sub(p0)
	dev := math.Sqrt(3) / 36 * d.Len()

	n := 1
	if tolerance > 0 && dev > tolerance {
		n = int(math.Ceil(math.Cbrt(dev / tolerance)))
	}
	if n > 32 {
		n = 32
	}

	at := func(t float64) Point {
		mt := 1 - t
		return p0.Scale(mt * mt * mt).
			Add(c1.Scale(3 * mt * mt * t)).
			Add(c2.Scale(3 * mt * t * t)).
			Add(p3.Scale(t * t * t))
	}
	deriv := func(t float64) Point {
		mt := 1 - t
		return c1.Sub(p0).Scale(3 * mt * mt).
			Add(c2.Sub(c1).Scale(6 * mt * t)).
			Add(p3.Sub(c2).Scale(3 * t * t))
	}

	ret := make([][2]Point, 0, n)
	for i := 0; i < n; i++ {
		t0 := float64(i) / float64(n)
		t1 := float64(i+1) / float64(n)
		h := (t1 - t0) / 3
		a := at(t0)
		b := at(t1)
		if i == n-1 {
			b = p3
		}
		if i == 0 {
			a = p0
		}
		ca := a.Add(deriv(t0).Scale(h))
		cb := b.Sub(deriv(t1).Scale(h))
		// best single quadratic for the sub-cubic (a, ca, cb, b)
		q := ca.Add(cb).Scale(3).Sub(a).Sub(b).Scale(0.25)
		ret = append(ret, [2]Point{q, b})
	}
	return ret
}
