package integrators

import (
	"github.com/san-kum/bubblechamber/internal/particle"
	"github.com/san-kum/bubblechamber/internal/physics"
)

// Euler is the explicit first-order scheme the chamber is defined by:
//
//	v += (q(v×B)/m)·dt
//	v *= 1 - friction·dt
//	x += v·dt
//
// Position uses the already-updated velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Advance(ch *physics.Chamber, p *particle.Particle, dt float64) {
	acc := ch.Acceleration(p.Charge, p.Mass, p.Velocity)
	p.Velocity = p.Velocity.Add(acc.Scale(dt))
	p.Velocity = p.Velocity.Scale(ch.Damping(dt))
	p.Position = p.Position.Add(p.Velocity.Scale(dt))
}
