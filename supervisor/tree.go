// Package supervisor runs the long-lived background services of the viewer
// (one tailer per source, the optional metrics endpoint) under suture, so a
// failing service is restarted with backoff instead of taking the process down.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds restart policy. Zero values take suture's defaults.
type TreeConfig struct {
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration
	ShutdownTimeout  time.Duration
}

// DefaultTreeConfig restarts tailers quickly: a tail error is usually a
// transient filesystem hiccup.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   2 * time.Second,
		ShutdownTimeout:  5 * time.Second,
	}
}

// Tree is a root supervisor with one child for ingestion and one for
// auxiliary services, so a crashing metrics server cannot affect tailing.
type Tree struct {
	root     *suture.Supervisor
	ingest   *suture.Supervisor
	services *suture.Supervisor
}

func NewTree(logger *slog.Logger, config TreeConfig) *Tree {
	hook := (&sutureslog.Handler{Logger: logger}).MustHook()
	spec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
		EventHook:        hook,
	}

	t := &Tree{
		root:     suture.New("livechart", spec),
		ingest:   suture.New("ingest", spec),
		services: suture.New("services", spec),
	}
	t.root.Add(t.ingest)
	t.root.Add(t.services)
	return t
}

// AddIngest supervises a tailer.
func (t *Tree) AddIngest(svc suture.Service) suture.ServiceToken {
	return t.ingest.Add(svc)
}

// AddService supervises an auxiliary service.
func (t *Tree) AddService(svc suture.Service) suture.ServiceToken {
	return t.services.Add(svc)
}

// ServeBackground starts the tree; it stops when ctx is cancelled. The returned
// channel yields the tree's terminal error.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}
