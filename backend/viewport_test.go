package backend

import (
	"image"
	"math"
	"testing"
)

func TestViewportCorners(t *testing.T) {
	vp := Viewport{Size: image.Pt(800, 700), Padding: 10}
	b := Bounds{MinX: -5, MaxX: 15, MinY: 2, MaxY: 42, Initialized: true}
	if got := vp.Map(b.MinX, b.MinY, b); got != image.Pt(10, 690) {
		t.Errorf("expected min corner at (10,690), got %v", got)
	}
	if got := vp.Map(b.MaxX, b.MaxY, b); got != image.Pt(790, 10) {
		t.Errorf("expected max corner at (790,10), got %v", got)
	}
	if got := vp.Map(5, 22, b); got != image.Pt(400, 350) {
		t.Errorf("expected centre at (400,350), got %v", got)
	}
}

func TestViewportDegenerate(t *testing.T) {
	vp := Viewport{Size: image.Pt(200, 100), Padding: 10}
	b := Bounds{MinX: 3, MaxX: 3, MinY: 0, MaxY: 10, Initialized: true}
	first := vp.Map(3, 0, b)
	for _, y := range []float64{0, 5, 10} {
		p := vp.Map(3, y, b)
		if p.X != first.X {
			t.Errorf("expected identical x for a degenerate axis, got %d and %d", first.X, p.X)
		}
	}
	if first.X != 100 {
		t.Errorf("expected degenerate x to be centred at 100, got %d", first.X)
	}
	flat := Bounds{MinX: 0, MaxX: 1, MinY: 7, MaxY: 7, Initialized: true}
	if got := vp.Map(0, 7, flat).Y; got != 50 {
		t.Errorf("expected degenerate y to be centred at 50, got %d", got)
	}
}

func TestNormalizeNonFinite(t *testing.T) {
	for _, tc := range []struct {
		v, lo, hi float64
	}{
		{v: 1, lo: math.Inf(-1), hi: math.Inf(1)},
		{v: math.NaN(), lo: 0, hi: 1},
		{v: math.Inf(1), lo: 0, hi: 1},
		{v: 1, lo: 0, hi: math.NaN()},
	} {
		if got := normalize(tc.v, tc.lo, tc.hi); got != 0.5 {
			t.Errorf("normalize(%v, %v, %v): expected 0.5, got %v", tc.v, tc.lo, tc.hi, got)
		}
	}
}

func TestViewportAnchor(t *testing.T) {
	vp := Viewport{Size: image.Pt(800, 700)}
	glyph := image.Pt(50, 20)
	for _, tc := range []struct {
		pos, expected image.Point
	}{
		{pos: image.Pt(10, 10), expected: image.Pt(10, 10)},
		{pos: image.Pt(10, -20), expected: image.Pt(10, 660)},
		{pos: image.Pt(-10, -10), expected: image.Pt(740, 670)},
		{pos: image.Pt(-10, 10), expected: image.Pt(740, 10)},
	} {
		if got := vp.Anchor(tc.pos, glyph); got != tc.expected {
			t.Errorf("anchor %v: expected %v, got %v", tc.pos, tc.expected, got)
		}
	}
}
