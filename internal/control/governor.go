package control

import (
	"math"

	"github.com/san-kum/bubblechamber/internal/generator"
	"github.com/san-kum/bubblechamber/internal/sim"
)

// Governor holds the population near a target by steering the generator's
// background spawn rate. The rate is BaseRate plus the PID output, clamped
// to [0, MaxRate].
type Governor struct {
	PID      *PID
	BaseRate float64
	MaxRate  float64

	gen  *generator.Generator
	rate float64
}

func NewGovernor(gen *generator.Generator, pid *PID, maxRate float64) *Governor {
	base := gen.Config().SpawnRate
	return &Governor{PID: pid, BaseRate: base, MaxRate: maxRate, gen: gen, rate: base}
}

// Update feeds one population measurement and applies the new rate.
func (g *Governor) Update(population int, t float64) float64 {
	u := g.PID.Compute(float64(population), t)
	rate := math.Max(0, g.BaseRate+u)
	if g.MaxRate > 0 {
		rate = math.Min(g.MaxRate, rate)
	}
	g.rate = rate
	g.gen.SetSpawnRate(rate)
	return rate
}

// OnStep lets the governor ride along a headless run as a sim.Observer.
func (g *Governor) OnStep(f *sim.Frame) {
	g.Update(len(f.Particles), f.Time)
}

func (g *Governor) Rate() float64 { return g.rate }

// Reset clears the loop and restores the base rate.
func (g *Governor) Reset() {
	g.PID.Reset()
	g.rate = g.BaseRate
	g.gen.SetSpawnRate(g.BaseRate)
}
