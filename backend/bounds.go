package backend

import "math"

// Bounds is the extent of every point drawn in one frame. The zero value is
// uninitialized and must not be used for normalization.
type Bounds struct {
	MinX, MaxX  float64
	MinY, MaxY  float64
	Initialized bool
}

// Update widens the bounds to include (x, y). NaN coordinates are ignored.
func (b *Bounds) Update(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	if !b.Initialized {
		*b = Bounds{MinX: x, MaxX: x, MinY: y, MaxY: y, Initialized: true}
		return
	}
	b.MinX = min(b.MinX, x)
	b.MaxX = max(b.MaxX, x)
	b.MinY = min(b.MinY, y)
	b.MaxY = max(b.MaxY, y)
}

// Add includes every (X, y) pair of p.
func (b *Bounds) Add(p Point) {
	for _, y := range p.Ys {
		b.Update(p.X, y)
	}
}

// AddAll includes every point of points.
func (b *Bounds) AddAll(points []Point) {
	for _, p := range points {
		b.Add(p)
	}
}
