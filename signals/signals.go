// Package signals provides synthetic sample sources for exercising the viewer
// without real instruments.
package signals

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// ErrUnknownSignal is returned by Parse for an unrecognised kind.
var ErrUnknownSignal = errors.New("unknown signal")

// Signal produces one value per call to Read.
type Signal interface {
	Name() string
	Read() (float64, error)
}

// Sine oscillates between -Amplitude and Amplitude, completing one cycle every
// Period reads.
type Sine struct {
	Amplitude float64
	Period    int
	step      int
}

func (s *Sine) Name() string { return "sine" }

func (s *Sine) Read() (float64, error) {
	if s.Period <= 0 {
		return 0, fmt.Errorf("sine: period must be positive, got %d", s.Period)
	}
	v := s.Amplitude * math.Sin(2*math.Pi*float64(s.step%s.Period)/float64(s.Period))
	s.step++
	return v, nil
}

// Ramp climbs from 0 by Slope per read and wraps after Period reads.
type Ramp struct {
	Slope  float64
	Period int
	step   int
}

func (r *Ramp) Name() string { return "ramp" }

func (r *Ramp) Read() (float64, error) {
	if r.Period <= 0 {
		return 0, fmt.Errorf("ramp: period must be positive, got %d", r.Period)
	}
	v := r.Slope * float64(r.step%r.Period)
	r.step++
	return v, nil
}

// RandomWalk moves by a normally distributed step of standard deviation Step
// on every read.
type RandomWalk struct {
	Step  float64
	rng   *rand.Rand
	value float64
}

// NewRandomWalk returns a walk starting at zero. The same seed reproduces the
// same walk.
func NewRandomWalk(step float64, seed uint64) *RandomWalk {
	return &RandomWalk{
		Step: step,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (w *RandomWalk) Name() string { return "walk" }

func (w *RandomWalk) Read() (float64, error) {
	w.value += w.rng.NormFloat64() * w.Step
	return w.value, nil
}

// Parse builds a signal from "kind" or "kind:param". The parameter is the
// amplitude of a sine, the slope of a ramp or the step of a walk. seed only
// affects walks.
func Parse(spec string, seed uint64) (Signal, error) {
	kind, param, hasParam := strings.Cut(spec, ":")
	value := 1.0
	if hasParam {
		v, err := strconv.ParseFloat(param, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter for %s: %w", kind, err)
		}
		value = v
	}
	switch kind {
	case "sine":
		return &Sine{Amplitude: value, Period: 100}, nil
	case "ramp":
		return &Ramp{Slope: value, Period: 100}, nil
	case "walk":
		return NewRandomWalk(value, seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSignal, kind)
	}
}
