// Package metrics provides sim.Metric implementations summarising a
// chamber run: population statistics, kinetic energy and event totals.
package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/sim"
)

var registry = map[string]func() sim.Metric{
	"population_mean": func() sim.Metric { return NewPopulation() },
	"population_peak": func() sim.Metric { return NewPeakPopulation() },
	"population_tail": func() sim.Metric { return NewTailPopulation() },
	"max_generation":  func() sim.Metric { return NewMaxGeneration() },
	"energy_mean":     func() sim.Metric { return NewEnergy() },
	"splits":          func() sim.Metric { return NewSplits() },
	"spawned":         func() sim.Metric { return NewSpawned() },
	"removed":         func() sim.Metric { return NewRemoved() },
}

// Default returns a fresh instance of every registered metric, plus a
// stability metric when populationLimit is positive.
func Default(populationLimit int) []sim.Metric {
	out := make([]sim.Metric, 0, len(registry)+1)
	for _, name := range Names() {
		out = append(out, registry[name]())
	}
	if populationLimit > 0 {
		out = append(out, NewStability(populationLimit))
	}
	return out
}

func New(name string) (sim.Metric, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: metric %q", dynamo.ErrUnknownName, name)
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
