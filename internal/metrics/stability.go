package metrics

import "github.com/san-kum/bubblechamber/internal/sim"

// Stability is the fraction of frames whose population stayed at or
// below threshold.
type Stability struct {
	name       string
	threshold  int
	violations int
	samples    int
}

func NewStability(threshold int) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f *sim.Frame) {
	s.samples++
	if len(f.Particles) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
