package metrics

import "github.com/san-kum/bubblechamber/internal/sim"

// Population is the mean particle count per frame.
type Population struct {
	sum     float64
	samples int
}

func NewPopulation() *Population { return &Population{} }

func (p *Population) Name() string { return "population_mean" }

func (p *Population) Observe(f *sim.Frame) {
	p.sum += float64(len(f.Particles))
	p.samples++
}

func (p *Population) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.sum / float64(p.samples)
}

func (p *Population) Reset() { *p = Population{} }

type PeakPopulation struct {
	peak int
}

func NewPeakPopulation() *PeakPopulation { return &PeakPopulation{} }

func (p *PeakPopulation) Name() string { return "population_peak" }

func (p *PeakPopulation) Observe(f *sim.Frame) {
	if n := len(f.Particles); n > p.peak {
		p.peak = n
	}
}

func (p *PeakPopulation) Value() float64 { return float64(p.peak) }
func (p *PeakPopulation) Reset()         { p.peak = 0 }

// TailPopulation averages the population over the second half of the run,
// after the initial burst has decayed. It is what the spawn-rate tuner
// targets.
type TailPopulation struct {
	counts []int
}

func NewTailPopulation() *TailPopulation { return &TailPopulation{} }

func (p *TailPopulation) Name() string { return "population_tail" }

func (p *TailPopulation) Observe(f *sim.Frame) {
	p.counts = append(p.counts, len(f.Particles))
}

func (p *TailPopulation) Value() float64 {
	tail := p.counts[len(p.counts)/2:]
	if len(tail) == 0 {
		return 0
	}
	sum := 0
	for _, n := range tail {
		sum += n
	}
	return float64(sum) / float64(len(tail))
}

func (p *TailPopulation) Reset() { p.counts = p.counts[:0] }

type MaxGeneration struct {
	max int
}

func NewMaxGeneration() *MaxGeneration { return &MaxGeneration{} }

func (m *MaxGeneration) Name() string { return "max_generation" }

func (m *MaxGeneration) Observe(f *sim.Frame) {
	for i := range f.Particles {
		if g := f.Particles[i].Generation; g > m.max {
			m.max = g
		}
	}
}

func (m *MaxGeneration) Value() float64 { return float64(m.max) }
func (m *MaxGeneration) Reset()         { m.max = 0 }

// Events totals one StepStats counter over the run.
type Events struct {
	name  string
	pick  func(sim.StepStats) int
	total int
}

func NewSplits() *Events {
	return &Events{name: "splits", pick: func(s sim.StepStats) int { return s.Split }}
}

func NewSpawned() *Events {
	return &Events{name: "spawned", pick: func(s sim.StepStats) int { return s.Spawned }}
}

func NewRemoved() *Events {
	return &Events{name: "removed", pick: func(s sim.StepStats) int { return s.Removed }}
}

func (e *Events) Name() string         { return e.name }
func (e *Events) Observe(f *sim.Frame) { e.total += e.pick(f.Stats) }
func (e *Events) Value() float64       { return float64(e.total) }
func (e *Events) Reset()               { e.total = 0 }
