package particle

import (
	"math"

	"github.com/san-kum/bubblechamber/internal/dynamo"
)

// Lifecycle of a particle. Removed is never stored; it is what a decaying
// particle with an empty trail reports just before the engine drops it.
type Lifecycle int

const (
	Alive Lifecycle = iota
	Decaying
	Removed
)

func (l Lifecycle) String() string {
	switch l {
	case Alive:
		return "alive"
	case Decaying:
		return "decaying"
	case Removed:
		return "removed"
	}
	return "unknown"
}

type Particle struct {
	Position dynamo.Vec3
	Velocity dynamo.Vec3

	Charge     int
	Mass       int
	Generation int

	Lifetime    float64
	DecaysAfter float64
	Alive       bool

	Path *Path
}

// New creates a live particle whose trail holds just its starting position.
// Mass below 1 is floored to 1 so the engine can divide by it unchecked.
func New(pos, vel dynamo.Vec3, charge, mass, generation int, decaysAfter float64) Particle {
	return NewWithPath(NewPath(minPathCap), pos, vel, charge, mass, generation, decaysAfter)
}

// NewWithPath is New with a caller-supplied (usually pooled) trail buffer.
func NewWithPath(path *Path, pos, vel dynamo.Vec3, charge, mass, generation int, decaysAfter float64) Particle {
	if mass < 1 {
		mass = 1
	}
	if path == nil {
		path = NewPath(minPathCap)
	}
	path.Reset()
	path.PushBack(pos)
	return Particle{
		Position:    pos,
		Velocity:    vel,
		Charge:      charge,
		Mass:        mass,
		Generation:  generation,
		DecaysAfter: decaysAfter,
		Alive:       true,
		Path:        path,
	}
}

func (p *Particle) State() Lifecycle {
	if p.Alive {
		return Alive
	}
	if p.Path == nil || p.Path.Len() == 0 {
		return Removed
	}
	return Decaying
}

func (p Particle) CanSplit() bool { return p.Mass > 1 }

func (p *Particle) Momentum() dynamo.Vec3 {
	return p.Velocity.Scale(float64(p.Mass))
}

func (p *Particle) KineticEnergy() float64 {
	return 0.5 * float64(p.Mass) * p.Velocity.Dot(p.Velocity)
}

func (p *Particle) IsValid() bool {
	return p.Position.IsValid() && p.Velocity.IsValid() && !math.IsNaN(p.Lifetime)
}

// TrailLen is the number of trail points, zero for a particle without a path.
func (p *Particle) TrailLen() int {
	if p.Path == nil {
		return 0
	}
	return p.Path.Len()
}
