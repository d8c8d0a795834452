package sim

import (
	"github.com/san-kum/bubblechamber/internal/particle"
	"github.com/san-kum/bubblechamber/internal/physics"
)

// Integrator advances a single live particle's velocity and position.
type Integrator interface {
	Advance(ch *physics.Chamber, p *particle.Particle, dt float64)
}

// StepStats counts the population events of one frame.
type StepStats struct {
	Decayed   int
	Split     int
	Daughters int
	Removed   int
	Spawned   int
}

func (s *StepStats) Add(o StepStats) {
	s.Decayed += o.Decayed
	s.Split += o.Split
	s.Daughters += o.Daughters
	s.Removed += o.Removed
	s.Spawned += o.Spawned
}

// Frame is what metrics and observers see after each step. Particles
// aliases the engine's population and is only valid during the callback.
type Frame struct {
	Step      int
	Time      float64
	Dt        float64
	Chamber   *physics.Chamber
	Particles []particle.Particle
	Stats     StepStats
}

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f *Frame)
}

type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60,
		Duration:      30.0,
		ValidateState: true,
	}
}

// Sample is one row of the population time series.
type Sample struct {
	Time       float64
	Population int
	Alive      int
	Decaying   int
	Energy     float64
	Stats      StepStats
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	Totals     StepStats
	StepsTaken int
	Errors     []error
	Final      []particle.Particle
}

// Populations extracts the population column of the time series.
func (r *Result) Populations() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = float64(s.Population)
	}
	return out
}
