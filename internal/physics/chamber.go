package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/particle"
)

// Chamber is the environment every particle moves through: a uniform
// magnetic field and a friction coefficient. It is immutable once built.
type Chamber struct {
	Field    dynamo.Vec3
	Friction float64
}

func NewChamber(field dynamo.Vec3, friction float64) *Chamber {
	return &Chamber{Field: field, Friction: friction}
}

// Validate checks friction is in [0,1) and the field is finite.
func (c *Chamber) Validate() error {
	if !c.Field.IsValid() {
		return fmt.Errorf("chamber field %v: %w", c.Field, dynamo.ErrParameterBounds)
	}
	if math.IsNaN(c.Friction) || c.Friction < 0 || c.Friction >= 1 {
		return &dynamo.BoundsError{Param: "friction", Value: c.Friction, Want: "[0,1)"}
	}
	return nil
}

// Force is the magnetic component of the Lorentz force, q(v × B).
func (c *Chamber) Force(charge int, vel dynamo.Vec3) dynamo.Vec3 {
	return vel.Cross(c.Field).Scale(float64(charge))
}

// Acceleration returns F/m for the given kinematic state. mass must be >= 1.
func (c *Chamber) Acceleration(charge, mass int, vel dynamo.Vec3) dynamo.Vec3 {
	return c.Force(charge, vel).Scale(1 / float64(mass))
}

// Damping is the per-step velocity factor 1 - friction*dt. It goes
// negative when friction*dt > 1; callers apply it as is.
func (c *Chamber) Damping(dt float64) float64 {
	return 1 - c.Friction*dt
}

// CyclotronRadius is m|v⊥|/(|q||B|), the radius of the undamped helix.
// Neutral particles and field-free chambers report +Inf.
func (c *Chamber) CyclotronRadius(p *particle.Particle) float64 {
	b := c.Field.Norm()
	if p.Charge == 0 || b == 0 {
		return math.Inf(1)
	}
	vPerp := p.Velocity.Perp(c.Field).Norm()
	return float64(p.Mass) * vPerp / (math.Abs(float64(p.Charge)) * b)
}

// CyclotronPeriod is 2πm/(|q||B|).
func (c *Chamber) CyclotronPeriod(p *particle.Particle) float64 {
	b := c.Field.Norm()
	if p.Charge == 0 || b == 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi * float64(p.Mass) / (math.Abs(float64(p.Charge)) * b)
}

// Energy is the total kinetic energy of the population. The magnetic
// force does no work, so without friction this is conserved between splits.
func (c *Chamber) Energy(ps []particle.Particle) float64 {
	e := 0.0
	for i := range ps {
		e += ps[i].KineticEnergy()
	}
	return e
}

// Momentum sums m·v over the population.
func (c *Chamber) Momentum(ps []particle.Particle) dynamo.Vec3 {
	var total dynamo.Vec3
	for i := range ps {
		total = total.Add(ps[i].Momentum())
	}
	return total
}
