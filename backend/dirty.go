package backend

import "image"

// DirtyTracker decides whether a frame needs to be drawn. It remembers the
// canvas size and per-chart point counts seen by the previous call.
type DirtyTracker struct {
	primed bool
	size   image.Point
	counts []int
}

// Decide reports whether a redraw is needed: on the first call, after the canvas
// was resized, or when any chart gained points.
func (d *DirtyTracker) Decide(size image.Point, counts []int) bool {
	changed := !d.primed
	d.primed = true
	if size != d.size {
		d.size = size
		changed = true
	}
	for len(d.counts) < len(counts) {
		d.counts = append(d.counts, 0)
	}
	for i, n := range counts {
		if n > d.counts[i] {
			d.counts[i] = n
			changed = true
		}
	}
	return changed
}
