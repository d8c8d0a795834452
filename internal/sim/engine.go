package sim

import (
	"github.com/san-kum/bubblechamber/internal/generator"
	"github.com/san-kum/bubblechamber/internal/integrators"
	"github.com/san-kum/bubblechamber/internal/particle"
	"github.com/san-kum/bubblechamber/internal/physics"
)

// Engine owns one particle population and advances it frame by frame.
// It must only be stepped from one goroutine, and renderers must read
// Particles between steps, never during one.
type Engine struct {
	chamber   *physics.Chamber
	gen       *generator.Generator
	integ     Integrator
	particles []particle.Particle

	toSplit  []int
	toRemove []int

	time  float64
	steps int
}

// NewEngine takes ownership of ps. A nil integrator means explicit Euler;
// a nil generator disables splitting and background spawning.
func NewEngine(ch *physics.Chamber, gen *generator.Generator, integ Integrator, ps []particle.Particle) *Engine {
	if integ == nil {
		integ = integrators.NewEuler()
	}
	return &Engine{
		chamber:   ch,
		gen:       gen,
		integ:     integ,
		particles: ps,
		toSplit:   make([]int, 0, len(ps)),
		toRemove:  make([]int, 0, len(ps)),
	}
}

// Step advances every particle by dt. A non-positive dt is a no-op frame.
//
// Per particle: a decaying particle drops its oldest trail point and is
// queued for removal once the trail is empty. A live particle ages, and if
// it has reached DecaysAfter it stops being alive (queued for a split when
// Mass > 1); it is still integrated and its position appended this frame.
//
// Splits and removals are applied only after the pass: daughters are
// appended, then queued indices are swap-removed from highest to lowest so
// no pending index is disturbed. Background spawning runs last.
func (e *Engine) Step(dt float64) StepStats {
	var stats StepStats
	if dt <= 0 {
		return stats
	}

	e.toSplit = e.toSplit[:0]
	e.toRemove = e.toRemove[:0]

	for i := range e.particles {
		p := &e.particles[i]

		if !p.Alive {
			p.Path.PopFront()
			if p.Path.Len() == 0 {
				e.toRemove = append(e.toRemove, i)
			}
			continue
		}

		p.Lifetime += dt
		if p.Lifetime >= p.DecaysAfter {
			p.Alive = false
			stats.Decayed++
			if p.CanSplit() {
				e.toSplit = append(e.toSplit, i)
			}
		}

		e.integ.Advance(e.chamber, p, dt)
		p.Path.PushBack(p.Position)
	}

	if e.gen != nil {
		for _, idx := range e.toSplit {
			daughters := e.gen.Split(&e.particles[idx])
			if len(daughters) == 0 {
				continue
			}
			stats.Split++
			stats.Daughters += len(daughters)
			e.particles = append(e.particles, daughters...)
		}
	}

	// toRemove is ascending.
	for j := len(e.toRemove) - 1; j >= 0; j-- {
		e.swapRemove(e.toRemove[j])
		stats.Removed++
	}

	if e.gen != nil {
		stats.Spawned = e.gen.MaybeAdd(dt, &e.particles)
	}

	e.time += dt
	e.steps++
	return stats
}

func (e *Engine) swapRemove(idx int) {
	last := len(e.particles) - 1
	if e.gen != nil {
		e.gen.Pool.Put(e.particles[idx].Path)
	}
	e.particles[idx] = e.particles[last]
	e.particles[last] = particle.Particle{}
	e.particles = e.particles[:last]
}

// Particles exposes the population for read-back. Callers must not mutate it.
func (e *Engine) Particles() []particle.Particle { return e.particles }

func (e *Engine) Len() int { return len(e.particles) }

func (e *Engine) Chamber() *physics.Chamber { return e.chamber }

func (e *Engine) Generator() *generator.Generator { return e.gen }

func (e *Engine) Time() float64 { return e.time }

func (e *Engine) Steps() int { return e.steps }

// Counts splits the population into live and decaying particles.
func (e *Engine) Counts() (alive, decaying int) {
	for i := range e.particles {
		if e.particles[i].Alive {
			alive++
		} else {
			decaying++
		}
	}
	return alive, decaying
}

// Reset replaces the population and rewinds the clock.
func (e *Engine) Reset(ps []particle.Particle) {
	e.particles = ps
	e.time = 0
	e.steps = 0
}
