package metrics

import "github.com/san-kum/bubblechamber/internal/sim"

// Energy is the mean total kinetic energy of the population per frame.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy_mean"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f *sim.Frame) {
	var ke float64
	for i := range f.Particles {
		ke += f.Particles[i].KineticEnergy()
	}
	e.totalEnergy += ke
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.samples = 0
	e.totalEnergy = 0
}
