package generator

import (
	"math"
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/particle"
)

const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = 3
	perlinStep  = 0.37

	// maxPairTransfer bounds the charge moved between daughters per split.
	maxPairTransfer = 2
)

// Generator owns every particle-creation policy. It is not safe for
// concurrent use; each engine gets its own.
type Generator struct {
	cfg    Config
	rng    *rand.Rand
	noise  *perlin.Perlin
	noiseT float64

	// Pool, when set, supplies trail buffers for new particles.
	Pool *particle.PathPool
}

// New builds a generator. A nil rng is seeded from the clock. MaxCharge is
// raised to 1 so an unvalidated config still yields charged roots.
func New(cfg Config, rng *rand.Rand) *Generator {
	if cfg.MaxCharge < 1 {
		cfg.MaxCharge = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &Generator{cfg: cfg, rng: rng}
	if cfg.Pattern == PatternPerlin {
		g.noise = perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, rng.Int63())
	}
	return g
}

func (g *Generator) Config() Config { return g.cfg }

// SetSpawnRate changes the background spawn rate; negative rates clamp to 0.
func (g *Generator) SetSpawnRate(rate float64) {
	if rate < 0 {
		rate = 0
	}
	g.cfg.SpawnRate = rate
}

// Generate returns count fresh root particles.
func (g *Generator) Generate(count int) []particle.Particle {
	if count < 0 {
		count = 0
	}
	ps := make([]particle.Particle, 0, count)
	for i := 0; i < count; i++ {
		ps = append(ps, g.newRoot())
	}
	return ps
}

// MaybeAdd appends background roots at SpawnRate·dt expected per call,
// independent of the current population size. It returns how many were added.
func (g *Generator) MaybeAdd(dt float64, population *[]particle.Particle) int {
	if dt <= 0 || g.cfg.SpawnRate <= 0 {
		return 0
	}
	expected := g.cfg.SpawnRate * dt
	n := int(expected)
	if g.rng.Float64() < expected-float64(n) {
		n++
	}

	added := 0
	for ; added < n; added++ {
		if g.cfg.MaxPopulation > 0 && len(*population) >= g.cfg.MaxPopulation {
			break
		}
		*population = append(*population, g.newRoot())
	}
	return added
}

// Split breaks a decaying parent into 2 or 3 daughters at its last
// position. Mass is partitioned exactly, momentum and charge are conserved.
// It returns nil when the parent may not split.
func (g *Generator) Split(parent *particle.Particle) []particle.Particle {
	if !parent.CanSplit() || parent.Generation >= g.cfg.MaxDepth {
		return nil
	}

	k := 2
	if parent.Mass >= 3 && g.rng.Intn(2) == 0 {
		k = 3
	}

	masses := g.partitionMass(parent.Mass, k)
	charges := g.distributeCharge(parent.Charge, k)
	kicks := g.kicks(parent, k)
	momentum := parent.Momentum()

	daughters := make([]particle.Particle, k)
	for i := range daughters {
		share := momentum.Scale(float64(masses[i]) / float64(parent.Mass))
		vel := share.Add(kicks[i]).Scale(1 / float64(masses[i]))
		daughters[i] = particle.NewWithPath(
			g.Pool.Get(),
			parent.Position,
			vel,
			charges[i],
			masses[i],
			parent.Generation+1,
			g.uniform(g.cfg.DaughterDecay),
		)
	}
	return daughters
}

func (g *Generator) newRoot() particle.Particle {
	pos, heading := g.placement()

	speed := g.cfg.SpeedScale * (0.5 + 0.5*g.rng.Float64())
	vz := g.cfg.SpeedScale * 0.1 * (2*g.rng.Float64() - 1)
	vel := dynamo.Vec3{
		X: speed * math.Cos(heading),
		Y: speed * math.Sin(heading),
		Z: vz,
	}

	return particle.NewWithPath(
		g.Pool.Get(),
		pos,
		vel,
		g.rootCharge(),
		g.cfg.MaxDepth,
		0,
		g.uniform(g.cfg.RootDecay),
	)
}

func (g *Generator) placement() (dynamo.Vec3, float64) {
	s := g.cfg.Spread
	switch g.cfg.Pattern {
	case PatternVertex:
		return dynamo.Vec3{}, g.rng.Float64() * 2 * math.Pi
	case PatternPerlin:
		g.noiseT += perlinStep
		t := g.noiseT
		pos := dynamo.Vec3{
			X: 2 * s * g.noise.Noise2D(t, 0.5),
			Y: 2 * s * g.noise.Noise2D(0.5, t),
			Z: 0.2 * s * g.noise.Noise2D(t, t),
		}
		heading := (g.noise.Noise2D(t, 3.1) + 1) * math.Pi
		return pos, heading
	default:
		pos := dynamo.Vec3{
			X: s * (2*g.rng.Float64() - 1),
			Y: s * (2*g.rng.Float64() - 1),
			Z: s * (2*g.rng.Float64() - 1),
		}
		return pos, g.rng.Float64() * 2 * math.Pi
	}
}

// rootCharge is a non-zero charge in [-MaxCharge, MaxCharge].
func (g *Generator) rootCharge() int {
	q := g.rng.Intn(g.cfg.MaxCharge) + 1
	if g.rng.Intn(2) == 0 {
		q = -q
	}
	return q
}

// partitionMass splits m into k parts, each at least 1, summing to m.
func (g *Generator) partitionMass(m, k int) []int {
	parts := make([]int, k)
	for i := range parts {
		parts[i] = 1
	}
	for rest := m - k; rest > 0; rest-- {
		parts[g.rng.Intn(k)]++
	}
	return parts
}

// distributeCharge hands the parent charge to the first daughter and then
// moves small amounts between neighbours, as pair creation would. The sum
// stays equal to q; transfers that would leave ±MaxCharge are skipped.
func (g *Generator) distributeCharge(q, k int) []int {
	out := make([]int, k)
	out[0] = q
	limit := g.cfg.MaxCharge
	for i := 1; i < k; i++ {
		d := g.rng.Intn(2*maxPairTransfer+1) - maxPairTransfer
		a, b := out[i-1]-d, out[i]+d
		if abs(a) <= limit && abs(b) <= limit {
			out[i-1], out[i] = a, b
		}
	}
	return out
}

// kicks returns k transverse momentum kicks summing to zero.
func (g *Generator) kicks(parent *particle.Particle, k int) []dynamo.Vec3 {
	mag := g.cfg.SplitKick * parent.Momentum().Norm()
	if mag == 0 {
		mag = g.cfg.SplitKick * g.cfg.SpeedScale * float64(parent.Mass) * 0.25
	}

	out := make([]dynamo.Vec3, k)
	var mean dynamo.Vec3
	for i := range out {
		phi := g.rng.Float64() * 2 * math.Pi
		dir := dynamo.Vec3{
			X: math.Cos(phi),
			Y: math.Sin(phi),
			Z: 0.1 * (2*g.rng.Float64() - 1),
		}.Normalize()
		out[i] = dir.Scale(mag * (0.5 + 0.5*g.rng.Float64()))
		mean = mean.Add(out[i])
	}
	mean = mean.Scale(1 / float64(k))
	for i := range out {
		out[i] = out[i].Sub(mean)
	}
	return out
}

func (g *Generator) uniform(r [2]float64) float64 {
	return r[0] + (r[1]-r[0])*g.rng.Float64()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
