package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/bubblechamber/internal/config"
	"github.com/san-kum/bubblechamber/internal/control"
	"github.com/san-kum/bubblechamber/internal/generator"
	"github.com/san-kum/bubblechamber/internal/integrators"
	"github.com/san-kum/bubblechamber/internal/metrics"
	"github.com/san-kum/bubblechamber/internal/particle"
	"github.com/san-kum/bubblechamber/internal/physics"
	"github.com/san-kum/bubblechamber/internal/sim"
)

// pathCap is the initial trail capacity of pooled buffers: about two
// seconds at 60 fps.
const pathCap = 128

// Experiment is one fully wired chamber: validated config, seeded
// generator, integrator, engine with its initial population, and a
// headless simulator around the engine. Governor is nil unless the config
// enables it.
type Experiment struct {
	Config    *config.Config
	Seed      int64
	Chamber   *physics.Chamber
	Generator *generator.Generator
	Engine    *sim.Engine
	Simulator *sim.Simulator
	Governor  *control.Governor
}

// Build validates cfg and wires an experiment. A zero seed is replaced by
// a clock seed, recorded in Seed so the run can be repeated.
func Build(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return build(cfg, seed)
}

func build(cfg *config.Config, seed int64) (*Experiment, error) {
	gc, err := cfg.GeneratorConfig()
	if err != nil {
		return nil, err
	}
	integ, err := integrators.Get(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	ch := cfg.ChamberModel()
	gen := generator.New(gc, rand.New(rand.NewSource(seed)))
	gen.Pool = particle.NewPathPool(pathCap)

	engine := sim.NewEngine(ch, gen, integ, gen.Generate(cfg.Generator.Count))
	exp := &Experiment{
		Config:    cfg,
		Seed:      seed,
		Chamber:   ch,
		Generator: gen,
		Engine:    engine,
		Simulator: sim.New(engine),
	}
	if gc := cfg.Governor; gc.Enabled() {
		pid := control.NewPID(gc.Kp, gc.Ki, gc.Kd, gc.Target)
		pid.IntegralLimit = gc.Target * 10
		exp.Governor = control.NewGovernor(gen, pid, gc.MaxRate)
		exp.Simulator.AddObserver(exp.Governor)
	}
	return exp, nil
}

// Step advances the engine by dt for interactive front ends, feeding the
// governor when there is one. Headless runs go through Run instead.
func (e *Experiment) Step(dt float64) sim.StepStats {
	stats := e.Engine.Step(dt)
	if e.Governor != nil {
		e.Governor.Update(e.Engine.Len(), e.Engine.Time())
	}
	return stats
}

// WithDefaultMetrics attaches every registered metric to the simulator.
func (e *Experiment) WithDefaultMetrics() *Experiment {
	for _, m := range metrics.Default(e.Config.Generator.MaxPopulation) {
		e.Simulator.AddMetric(m)
	}
	return e
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.Simulator == nil {
		return nil, fmt.Errorf("experiment not built")
	}
	cfg := e.Config.SimConfig()
	cfg.Seed = e.Seed
	return e.Simulator.Run(ctx, cfg)
}

// Reset discards the population and spawns a fresh initial set from the
// same generator.
func (e *Experiment) Reset() {
	for _, p := range e.Engine.Particles() {
		e.Generator.Pool.Put(p.Path)
	}
	if e.Governor != nil {
		e.Governor.Reset()
	}
	e.Engine.Reset(e.Generator.Generate(e.Config.Generator.Count))
}

// Factory returns a sim.Factory building an independent copy of cfg per
// seed, each with the default metrics attached. Ensembles use it.
func Factory(cfg *config.Config) sim.Factory {
	return func(seed int64) (*sim.Simulator, error) {
		exp, err := build(cfg, seed)
		if err != nil {
			return nil, err
		}
		return exp.WithDefaultMetrics().Simulator, nil
	}
}

// NewEnsemble validates cfg once and returns an ensemble of runs seeded
// seedStart, seedStart+1, ...
func NewEnsemble(cfg *config.Config, runs int, seedStart int64) (*sim.Ensemble, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return sim.NewEnsemble(Factory(cfg), runs, seedStart), nil
}
