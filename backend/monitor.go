package backend

import (
	"context"

	"git.sr.ht/~gioverse/skel/stream"
)

// Status summarizes ingestion across every source.
type Status struct {
	Sources   int
	Records   int
	Errors    int
	LastError string
}

// Monitor collects ingestion progress from the tailers and publishes it as a
// stream of Status values. A nil *Monitor discards updates.
type Monitor struct {
	source *stream.Source[Status, Status]
}

// NewMonitor returns a monitor whose streams close when ctx is cancelled.
func NewMonitor(ctx context.Context) *Monitor {
	m := &Monitor{
		source: stream.NewSourceCtx(ctx, func(s Status) (Status, bool) {
			return s, true
		}),
	}
	// Publish the empty status so new streams start with a value.
	m.update(func(*Status) {})
	return m
}

func (m *Monitor) update(f func(*Status)) {
	if m == nil {
		return
	}
	m.source.Update(func(s Status) Status {
		f(&s)
		return s
	})
}

func (m *Monitor) addSource() {
	m.update(func(s *Status) { s.Sources++ })
}

func (m *Monitor) ingested(n int) {
	m.update(func(s *Status) { s.Records += n })
}

func (m *Monitor) tailError(err error) {
	m.update(func(s *Status) {
		s.Errors++
		s.LastError = err.Error()
	})
}

// Current returns the latest status.
func (m *Monitor) Current() (current Status) {
	m.source.UpdateIf(func(s Status) (Status, bool) {
		current = s
		return s, false
	})
	return current
}

// Status streams the latest status and then every change until ctx is done.
// Changes that happen while the receiver is busy are coalesced.
func (m *Monitor) Status(ctx context.Context) <-chan Status {
	return m.source.Stream(ctx)
}
