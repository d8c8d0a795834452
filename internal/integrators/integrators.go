package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/particle"
	"github.com/san-kum/bubblechamber/internal/physics"
)

// Stepper advances one particle's velocity and position by dt.
type Stepper interface {
	Name() string
	Advance(ch *physics.Chamber, p *particle.Particle, dt float64)
}

var registry = map[string]func() Stepper{
	"euler": func() Stepper { return NewEuler() },
	"rk4":   func() Stepper { return NewRK4() },
}

func Get(name string) (Stepper, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("integrator %q: %w", name, dynamo.ErrUnknownName)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
