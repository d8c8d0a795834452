package sim

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/generator"
	"github.com/san-kum/bubblechamber/internal/integrators"
	"github.com/san-kum/bubblechamber/internal/particle"
	"github.com/san-kum/bubblechamber/internal/physics"
)

func referenceChamber() *physics.Chamber {
	return physics.NewChamber(dynamo.Vec3{Z: 1.5}, 0.2)
}

func quietGenerator(maxDepth int, seed int64) *generator.Generator {
	cfg := generator.DefaultConfig()
	cfg.MaxDepth = maxDepth
	cfg.SpawnRate = 0
	return generator.New(cfg, rand.New(rand.NewSource(seed)))
}

func TestEngineStep_Golden(t *testing.T) {
	p := particle.New(dynamo.Vec3{}, dynamo.Vec3{X: 1}, 1, 1, 0, 100)
	e := NewEngine(referenceChamber(), nil, integrators.NewEuler(), []particle.Particle{p})

	stats := e.Step(0.1)
	if stats != (StepStats{}) {
		t.Errorf("unexpected events %+v", stats)
	}

	got := e.Particles()[0]
	wantV := dynamo.Vec3{X: 0.98, Y: -0.147}
	wantX := dynamo.Vec3{X: 0.098, Y: -0.0147}
	if got.Velocity.Sub(wantV).Norm() > 1e-12 {
		t.Errorf("velocity = %v, want %v", got.Velocity, wantV)
	}
	if got.Position.Sub(wantX).Norm() > 1e-12 {
		t.Errorf("position = %v, want %v", got.Position, wantX)
	}
	if got.Path.Len() != 2 {
		t.Errorf("path length = %d, want 2", got.Path.Len())
	}
	if back, _ := got.Path.Back(); back != got.Position {
		t.Errorf("path back = %v, want current position %v", back, got.Position)
	}
	if math.Abs(got.Lifetime-0.1) > 1e-15 {
		t.Errorf("lifetime = %v, want 0.1", got.Lifetime)
	}
}

func TestEngineStep_DecayIsExact(t *testing.T) {
	p := particle.New(dynamo.Vec3{}, dynamo.Vec3{X: 1}, 1, 1, 0, 1.0)
	e := NewEngine(referenceChamber(), nil, nil, []particle.Particle{p})

	e.Step(0.6)
	if !e.Particles()[0].Alive {
		t.Fatal("particle decayed before its lifetime")
	}

	stats := e.Step(0.6)
	got := e.Particles()[0]
	if got.Alive {
		t.Fatal("particle still alive at lifetime 1.2")
	}
	if stats.Decayed != 1 {
		t.Errorf("Decayed = %d, want 1", stats.Decayed)
	}
	if stats.Split != 0 {
		t.Errorf("mass-1 particle split")
	}
	// the decay frame is still integrated and recorded
	if got.Path.Len() != 3 {
		t.Errorf("path length = %d, want 3", got.Path.Len())
	}
}

func TestEngineStep_DecayingDrainsThenRemoved(t *testing.T) {
	p := particle.New(dynamo.Vec3{}, dynamo.Vec3{X: 1}, 1, 1, 0, 0.05)
	e := NewEngine(referenceChamber(), nil, nil, []particle.Particle{p})

	e.Step(0.1) // decays, path length 2
	pos := e.Particles()[0].Position

	removed := 0
	for i := 0; i < 2; i++ {
		stats := e.Step(0.1)
		removed += stats.Removed
		if e.Len() > 0 {
			if e.Particles()[0].Position != pos {
				t.Errorf("decaying particle moved")
			}
		}
	}
	if removed != 1 || e.Len() != 0 {
		t.Errorf("removed=%d len=%d, want 1 and 0", removed, e.Len())
	}
}

func TestEngineStep_ZeroDtIsNoop(t *testing.T) {
	gen := quietGenerator(4, 1)
	ps := gen.Generate(6)
	ps[2].Alive = false
	e := NewEngine(referenceChamber(), gen, nil, ps)

	before := make([]particle.Particle, e.Len())
	lens := make([]int, e.Len())
	for i, p := range e.Particles() {
		before[i] = p
		lens[i] = p.Path.Len()
	}

	for _, dt := range []float64{0, -0.5} {
		stats := e.Step(dt)
		if stats != (StepStats{}) {
			t.Errorf("dt=%v: stats = %+v", dt, stats)
		}
	}

	if e.Len() != len(before) {
		t.Fatalf("population changed: %d -> %d", len(before), e.Len())
	}
	for i, p := range e.Particles() {
		b := before[i]
		if p.Position != b.Position || p.Velocity != b.Velocity || p.Lifetime != b.Lifetime || p.Alive != b.Alive {
			t.Errorf("particle %d changed on zero step", i)
		}
		if p.Path.Len() != lens[i] {
			t.Errorf("particle %d path %d -> %d", i, lens[i], p.Path.Len())
		}
	}
	if e.Time() != 0 || e.Steps() != 0 {
		t.Errorf("clock advanced: t=%v steps=%d", e.Time(), e.Steps())
	}
}

func TestEngineStep_RemovalKeepsSurvivors(t *testing.T) {
	// Charges tag identity; the decaying ones have a single trail point so
	// they are all removed in the same frame.
	var ps []particle.Particle
	for q := 1; q <= 7; q++ {
		p := particle.New(dynamo.Vec3{X: float64(q)}, dynamo.Vec3{}, q, 1, 0, 100)
		if q%2 == 1 {
			p.Alive = false
		}
		ps = append(ps, p)
	}
	e := NewEngine(referenceChamber(), nil, nil, ps)

	stats := e.Step(0.1)
	if stats.Removed != 4 {
		t.Fatalf("Removed = %d, want 4", stats.Removed)
	}

	var got []int
	for _, p := range e.Particles() {
		got = append(got, p.Charge)
		if p.Path == nil || p.Path.Len() != 2 {
			t.Errorf("survivor %d has corrupt path", p.Charge)
		}
	}
	sort.Ints(got)
	want := []int{2, 4, 6}
	if len(got) != len(want) {
		t.Fatalf("survivors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("survivors = %v, want %v", got, want)
			break
		}
	}
}

func TestEngineStep_SplitAppendsDaughters(t *testing.T) {
	gen := quietGenerator(6, 3)
	parent := particle.New(dynamo.Vec3{}, dynamo.Vec3{X: 10}, 2, 4, 0, 0.05)
	e := NewEngine(physics.NewChamber(dynamo.Vec3{}, 0), gen, nil, []particle.Particle{parent})

	stats := e.Step(0.1)
	if stats.Split != 1 {
		t.Fatalf("Split = %d, want 1", stats.Split)
	}
	if stats.Daughters < 2 || stats.Daughters > 3 {
		t.Fatalf("Daughters = %d, want 2 or 3", stats.Daughters)
	}
	if e.Len() != 1+stats.Daughters {
		t.Fatalf("Len = %d, want %d", e.Len(), 1+stats.Daughters)
	}

	ps := e.Particles()
	if ps[0].Alive {
		t.Error("parent still alive")
	}
	mass, charge := 0, 0
	for _, d := range ps[1:] {
		if !d.Alive || d.Generation != 1 {
			t.Errorf("daughter alive=%v generation=%d", d.Alive, d.Generation)
		}
		if d.Position != ps[0].Position {
			t.Errorf("daughter born at %v, parent ended at %v", d.Position, ps[0].Position)
		}
		if d.Path.Len() != 1 {
			t.Errorf("daughter path length %d, want 1", d.Path.Len())
		}
		mass += d.Mass
		charge += d.Charge
	}
	if mass != 4 || charge != 2 {
		t.Errorf("daughters carry mass %d charge %d, want 4 and 2", mass, charge)
	}
}

func TestEngine_CascadeTerminates(t *testing.T) {
	gen := quietGenerator(3, 11)
	e := NewEngine(referenceChamber(), gen, nil, gen.Generate(5))

	dt := 1.0 / 60
	var totals StepStats
	for i := 0; i < 60*60; i++ {
		totals.Add(e.Step(dt))
		for _, p := range e.Particles() {
			if p.Mass < 1 || p.Generation > 3 {
				t.Fatalf("step %d: mass %d generation %d", i, p.Mass, p.Generation)
			}
		}
	}

	if e.Len() != 0 {
		t.Errorf("population %d after a minute with no spawning", e.Len())
	}
	if totals.Removed != 5+totals.Daughters {
		t.Errorf("removed %d, want every root and daughter (%d)", totals.Removed, 5+totals.Daughters)
	}
}

func TestEngine_PopulationStaysBounded(t *testing.T) {
	cfg := generator.DefaultConfig()
	cfg.MaxDepth = 1
	cfg.SpawnRate = 2
	gen := generator.New(cfg, rand.New(rand.NewSource(5)))
	gen.Pool = particle.NewPathPool(64)
	e := NewEngine(referenceChamber(), gen, nil, nil)

	dt := 1.0 / 60
	peak, spawned := 0, 0
	for i := 0; i < 60*60; i++ {
		spawned += e.Step(dt).Spawned
		if e.Len() > peak {
			peak = e.Len()
		}
	}
	if spawned < 80 || spawned > 160 {
		t.Errorf("spawned %d over 60s at rate 2", spawned)
	}
	if peak >= 60 {
		t.Errorf("peak population %d, expected a steady state well below 60", peak)
	}
}

func TestEngine_ResetAndCounts(t *testing.T) {
	gen := quietGenerator(2, 2)
	ps := gen.Generate(4)
	ps[0].Alive = false
	e := NewEngine(referenceChamber(), gen, nil, ps)

	alive, decaying := e.Counts()
	if alive != 3 || decaying != 1 {
		t.Errorf("Counts = %d,%d want 3,1", alive, decaying)
	}

	e.Step(0.1)
	e.Reset(gen.Generate(2))
	if e.Len() != 2 || e.Time() != 0 || e.Steps() != 0 {
		t.Errorf("after Reset len=%d t=%v steps=%d", e.Len(), e.Time(), e.Steps())
	}
}

func BenchmarkEngineStep(b *testing.B) {
	cfg := generator.DefaultConfig()
	cfg.SpawnRate = 20
	gen := generator.New(cfg, rand.New(rand.NewSource(1)))
	gen.Pool = particle.NewPathPool(128)
	e := NewEngine(referenceChamber(), gen, nil, gen.Generate(200))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Step(1.0 / 60)
	}
}
