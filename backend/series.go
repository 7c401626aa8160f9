package backend

import (
	"slices"
	"sync"
)

// RWBox guards a value with a reader/writer lock. The lock is only held for
// the duration of the callback.
type RWBox[T any] struct {
	t    T
	lock sync.RWMutex
}

func (r *RWBox[T]) Read(f func(*T)) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	f(&r.t)
}

func (r *RWBox[T]) Write(f func(*T)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	f(&r.t)
}

// Series represents one data set in a visualization. It is written by a single
// ingestion task and read by the render loop; records are only ever appended.
type Series struct {
	records RWBox[[]Record]
}

func NewSeries() *Series {
	return &Series{}
}

// Append adds records to the end of the series as a single atomic step.
func (s *Series) Append(recs ...Record) {
	if len(recs) == 0 {
		return
	}
	s.records.Write(func(r *[]Record) {
		*r = append(*r, recs...)
	})
}

// Snapshot returns the records appended so far. The returned slice is a
// consistent prefix of the series; later appends never become visible through
// it, and callers must not modify it.
func (s *Series) Snapshot() (out []Record) {
	s.records.Read(func(r *[]Record) {
		out = slices.Clip(*r)
	})
	return out
}

// Len returns the number of records in the series.
func (s *Series) Len() (n int) {
	s.records.Read(func(r *[]Record) {
		n = len(*r)
	})
	return n
}
