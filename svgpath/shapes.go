package svgpath

// kappa places cubic control points for a quarter ellipse.
const kappa = 0.5522847498

// Rect returns the outline of a rectangle, optionally with rounded corners.
// Radii are clamped to half the width and height.
func Rect(x, y, w, h, rx, ry float64) Path {
	p := Path{}
	if w <= 0 || h <= 0 {
		return p
	}
	if rx < 0 {
		rx = 0
	}
	if ry < 0 {
		ry = 0
	}
	if rx > w/2 {
		rx = w / 2
	}
	if ry > h/2 {
		ry = h / 2
	}

	if rx == 0 || ry == 0 {
		p.MoveTo(Point{x, y})
		p.LineTo(Point{x + w, y})
		p.LineTo(Point{x + w, y + h})
		p.LineTo(Point{x, y + h})
		p.Close()
		return p
	}

	kx, ky := rx*kappa, ry*kappa
	r, b := x+w, y+h
	p.MoveTo(Point{x + rx, y})
	p.LineTo(Point{r - rx, y})
	p.CubicTo(Point{r - rx + kx, y}, Point{r, y + ry - ky}, Point{r, y + ry})
	p.LineTo(Point{r, b - ry})
	p.CubicTo(Point{r, b - ry + ky}, Point{r - rx + kx, b}, Point{r - rx, b})
	p.LineTo(Point{x + rx, b})
	p.CubicTo(Point{x + rx - kx, b}, Point{x, b - ry + ky}, Point{x, b - ry})
	p.LineTo(Point{x, y + ry})
	p.CubicTo(Point{x, y + ry - ky}, Point{x + rx - kx, y}, Point{x + rx, y})
	p.Close()
	return p
}

// Ellipse returns an ellipse outline made of four cubic curves.
func Ellipse(cx, cy, rx, ry float64) Path {
	p := Path{}
	if rx <= 0 || ry <= 0 {
		return p
	}
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(Point{cx + rx, cy})
	p.CubicTo(Point{cx + rx, cy + ky}, Point{cx + kx, cy + ry}, Point{cx, cy + ry})
	p.CubicTo(Point{cx - kx, cy + ry}, Point{cx - rx, cy + ky}, Point{cx - rx, cy})
	p.CubicTo(Point{cx - rx, cy - ky}, Point{cx - kx, cy - ry}, Point{cx, cy - ry})
	p.CubicTo(Point{cx + kx, cy - ry}, Point{cx + rx, cy - ky}, Point{cx + rx, cy})
	p.Close()
	return p
}

// Poly builds a polyline from a flat list of coordinates. An odd trailing
// coordinate is ignored.
func Poly(coords []float64, closed bool) Path {
	p := Path{}
	if len(coords) < 4 {
		return p
	}
	for i := 0; i+1 < len(coords); i += 2 {
		pt := Point{coords[i], coords[i+1]}
		if i == 0 {
			p.MoveTo(pt)
		} else {
			p.LineTo(pt)
		}
	}
	if closed {
		p.Close()
	}
	return p
}
