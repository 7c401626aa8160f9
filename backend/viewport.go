package backend

import (
	"image"
	"math"

	"golang.org/x/exp/constraints"
)

// Viewport maps data space onto a canvas of Size pixels, leaving Padding pixels
// free on every side.
type Viewport struct {
	Size    image.Point
	Padding int
}

// Map converts a data point into pixel space. Pixel y grows downward, so the
// data y axis is flipped.
func (v Viewport) Map(x, y float64, b Bounds) image.Point {
	nx := normalize(x, b.MinX, b.MaxX)
	ny := normalize(y, b.MinY, b.MaxY)
	px := v.Padding + scale(nx, v.Size.X-2*v.Padding)
	py := v.Padding + scale(ny, v.Size.Y-2*v.Padding)
	return image.Pt(px, v.Size.Y-py)
}

// Anchor resolves a label position. A negative component is measured from the
// far edge of the canvas, so that the glyph box ends |coord| pixels before it.
func (v Viewport) Anchor(pos, glyph image.Point) image.Point {
	if pos.X < 0 {
		pos.X = v.Size.X + pos.X - glyph.X
	}
	if pos.Y < 0 {
		pos.Y = v.Size.Y + pos.Y - glyph.Y
	}
	return pos
}

// normalize places value within [lo, hi] as a fraction. A zero-width or
// non-finite interval has no meaningful fraction and yields the midpoint.
func normalize[F constraints.Float](value, lo, hi F) F {
	span := hi - lo
	if span == 0 || !finite(span) {
		return 0.5
	}
	n := (value - lo) / span
	if !finite(n) {
		return 0.5
	}
	return n
}

func finite[F constraints.Float](f F) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// scale converts a fraction of extent into whole pixels, truncating toward zero.
func scale[F constraints.Float](n F, extent int) int {
	return int(n * F(extent))
}
