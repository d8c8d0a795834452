package integrators

import (
	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/particle"
	"github.com/san-kum/bubblechamber/internal/physics"
)

// RK4 integrates the continuous form of the chamber equations,
//
//	dx/dt = v
//	dv/dt = q(v×B)/m - friction·v
//
// with the classical fourth-order Runge-Kutta scheme. Friction is treated
// as exponential decay here, so it never flips the velocity.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Advance(ch *physics.Chamber, p *particle.Particle, dt float64) {
	deriv := func(v dynamo.Vec3) dynamo.Vec3 {
		return ch.Acceleration(p.Charge, p.Mass, v).Sub(v.Scale(ch.Friction))
	}

	v0 := p.Velocity
	k1v := deriv(v0)
	k1x := v0

	v1 := v0.Add(k1v.Scale(dt * 0.5))
	k2v := deriv(v1)
	k2x := v1

	v2 := v0.Add(k2v.Scale(dt * 0.5))
	k3v := deriv(v2)
	k3x := v2

	v3 := v0.Add(k3v.Scale(dt))
	k4v := deriv(v3)
	k4x := v3

	dt6 := dt / 6.0
	p.Velocity = v0.Add(k1v.Add(k2v.Scale(2)).Add(k3v.Scale(2)).Add(k4v).Scale(dt6))
	p.Position = p.Position.Add(k1x.Add(k2x.Scale(2)).Add(k3x.Scale(2)).Add(k4x).Scale(dt6))
}
