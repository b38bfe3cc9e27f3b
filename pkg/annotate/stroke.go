package annotate

import (
	"VisionAgent/internal/entity"
	"image"
	"image/color"
	"image/draw"
	"math"
)

// drawBox outlines b with strokes laid inside the box, like a pen following
// the inner edge.
func (a *Annotator) drawBox(img *image.NRGBA, b entity.Box) {
	r := b.Bounds()
	x1, y1, x2, y2 := r.Min.X, r.Min.Y, r.Max.X, r.Max.Y
	w := a.strokeWidth

	// Max is exclusive, corners are inclusive.
	fill(img, image.Rect(x1, y1, x2+1, min(y1+w, y2+1)), a.boxColor)
	fill(img, image.Rect(x1, max(y2-w+1, y1), x2+1, y2+1), a.boxColor)
	fill(img, image.Rect(x1, y1, min(x1+w, x2+1), y2+1), a.boxColor)
	fill(img, image.Rect(max(x2-w+1, x1), y1, x2+1, y2+1), a.boxColor)
}

// drawPolyline joins consecutive points. The shape is left open.
func (a *Annotator) drawPolyline(img *image.NRGBA, points []entity.Point) {
	if len(points) == 1 {
		a.stamp(img, entity.Pixel(points[0].X), entity.Pixel(points[0].Y))
		return
	}

	// Segments are clipped to the canvas plus one brush width before walking.
	clip := img.Bounds().Inset(-a.strokeWidth)
	for i := 1; i < len(points); i++ {
		p, q, ok := clipSegment(points[i-1], points[i], clip)
		if !ok {
			continue
		}
		a.drawLine(img, entity.Pixel(p.X), entity.Pixel(p.Y), entity.Pixel(q.X), entity.Pixel(q.Y))
	}
}

// clipSegment is Liang-Barsky against r. ok is false when no part of p-q lies
// inside r. Clipped ends are snapped onto the edge that cut them.
func clipSegment(p, q entity.Point, r image.Rectangle) (entity.Point, entity.Point, bool) {
	for _, v := range []float64{p.X, p.Y, q.X, q.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return p, q, false
		}
	}

	minX, minY := float64(r.Min.X), float64(r.Min.Y)
	maxX, maxY := float64(r.Max.X), float64(r.Max.Y)
	dx, dy := q.X-p.X, q.Y-p.Y
	edges := [4]struct{ dir, dist float64 }{
		{-dx, p.X - minX},
		{dx, maxX - p.X},
		{-dy, p.Y - minY},
		{dy, maxY - p.Y},
	}

	t0, t1 := 0.0, 1.0
	in, out := -1, -1
	for i, e := range edges {
		if e.dir == 0 {
			if e.dist < 0 {
				return p, q, false
			}
			continue
		}
		t := e.dist / e.dir
		if e.dir < 0 {
			if t > t1 {
				return p, q, false
			}
			if t > t0 {
				t0, in = t, i
			}
		} else {
			if t < t0 {
				return p, q, false
			}
			if t < t1 {
				t1, out = t, i
			}
		}
	}

	snap := func(t float64, edge int) entity.Point {
		pt := entity.Point{X: p.X + t*dx, Y: p.Y + t*dy}
		switch edge {
		case 0:
			pt.X = minX
		case 1:
			pt.X = maxX
		case 2:
			pt.Y = minY
		case 3:
			pt.Y = maxY
		}
		pt.X = math.Min(math.Max(pt.X, minX), maxX)
		pt.Y = math.Min(math.Max(pt.Y, minY), maxY)
		return pt
	}

	return snap(t0, in), snap(t1, out), true
}

func (a *Annotator) drawLine(img *image.NRGBA, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	for {
		a.stamp(img, x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (a *Annotator) stamp(img *image.NRGBA, x, y int) {
	half := a.strokeWidth / 2
	fill(img, image.Rect(x-half, y-half, x-half+a.strokeWidth, y-half+a.strokeWidth), a.boxColor)
}

func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
