package sim_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/generator"
	"github.com/san-kum/bubblechamber/internal/particle"
	"github.com/san-kum/bubblechamber/internal/physics"
	"github.com/san-kum/bubblechamber/internal/sim"
)

var _ = Describe("Particle lifecycle", func() {
	var (
		chamber *physics.Chamber
		gen     *generator.Generator
	)

	BeforeEach(func() {
		chamber = physics.NewChamber(dynamo.Vec3{Z: 1.5}, 0.2)
		cfg := generator.DefaultConfig()
		cfg.SpawnRate = 0
		cfg.MaxDepth = 3
		gen = generator.New(cfg, rand.New(rand.NewSource(42)))
		gen.Pool = particle.NewPathPool(32)
	})

	Context("a live particle", func() {
		It("grows its trail by one point per frame", func() {
			e := sim.NewEngine(chamber, gen, nil, []particle.Particle{
				particle.New(dynamo.Vec3{}, dynamo.Vec3{X: 5}, 1, 1, 0, 10),
			})
			for i := 0; i < 7; i++ {
				e.Step(0.05)
			}
			p := e.Particles()[0]
			Expect(p.Alive).To(BeTrue())
			Expect(p.Path.Len()).To(Equal(8))
			Expect(p.Lifetime).To(BeNumerically("~", 0.35, 1e-12))
		})

		It("curls in the field instead of flying straight", func() {
			e := sim.NewEngine(chamber, nil, nil, []particle.Particle{
				particle.New(dynamo.Vec3{}, dynamo.Vec3{X: 1}, 1, 1, 0, 100),
			})
			e.Step(0.1)
			Expect(e.Particles()[0].Velocity.Y).To(BeNumerically("<", 0))
		})
	})

	Context("a decaying particle", func() {
		It("shrinks its trail and is removed once empty", func() {
			e := sim.NewEngine(chamber, gen, nil, []particle.Particle{
				particle.New(dynamo.Vec3{}, dynamo.Vec3{X: 5}, 1, 1, 0, 0.2),
			})
			for e.Particles()[0].Alive {
				e.Step(0.05)
			}
			n := e.Particles()[0].Path.Len()
			Expect(n).To(BeNumerically(">", 1))

			removed := 0
			for i := 0; i < n; i++ {
				Expect(e.Len()).To(Equal(1))
				Expect(e.Particles()[0].Path.Len()).To(Equal(n - i))
				removed += e.Step(0.05).Removed
			}
			Expect(removed).To(Equal(1))
			Expect(e.Len()).To(BeZero())
		})
	})

	Context("a heavy particle", func() {
		It("hands its mass and charge to its daughters", func() {
			e := sim.NewEngine(chamber, gen, nil, gen.Generate(1))
			root := e.Particles()[0]

			var stats sim.StepStats
			for stats.Split == 0 {
				stats = e.Step(0.05)
			}

			daughters := e.Particles()[1:]
			Expect(daughters).To(HaveLen(stats.Daughters))

			mass, charge := 0, 0
			for _, d := range daughters {
				Expect(d.Generation).To(Equal(1))
				Expect(d.Alive).To(BeTrue())
				mass += d.Mass
				charge += d.Charge
			}
			Expect(mass).To(Equal(root.Mass))
			Expect(charge).To(Equal(root.Charge))
		})

		It("eventually leaves an empty chamber", func() {
			e := sim.NewEngine(chamber, gen, nil, gen.Generate(8))
			for i := 0; i < 30*40; i++ {
				e.Step(1.0 / 30)
			}
			Expect(e.Len()).To(BeZero())
		})
	})
})
