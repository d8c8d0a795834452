package control

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/bubblechamber/internal/generator"
	"github.com/san-kum/bubblechamber/internal/particle"
	"github.com/san-kum/bubblechamber/internal/sim"
)

func TestPIDProportional(t *testing.T) {
	pid := NewPID(2.0, 0.0, 0.0, 10.0)
	if u := pid.Compute(4, 0); u != 12 {
		t.Errorf("first output = %g, want 12", u)
	}
	if u := pid.Compute(7, 0.1); math.Abs(u-6) > 1e-12 {
		t.Errorf("second output = %g, want 6", u)
	}
}

func TestPIDIntegralAndReset(t *testing.T) {
	pid := NewPID(0, 1, 0, 5)
	pid.Compute(0, 0)
	pid.Compute(0, 1)
	u := pid.Compute(0, 2)
	if math.Abs(u-10) > 1e-12 {
		t.Errorf("integral output = %g, want 10", u)
	}

	pid.Reset()
	if u := pid.Compute(0, 3); u != 0 {
		t.Errorf("after reset first output = %g, want 0 (Kp is 0)", u)
	}
}

func TestPIDAntiWindup(t *testing.T) {
	pid := NewPID(0, 1, 0, 100)
	pid.IntegralLimit = 50
	pid.Compute(0, 0)
	var u float64
	for i := 1; i <= 10; i++ {
		u = pid.Compute(0, float64(i))
	}
	if u != 50 {
		t.Errorf("wound-up output = %g, want clamp at 50", u)
	}
}

func TestPIDParams(t *testing.T) {
	pid := NewPID(1, 2, 3, 4)
	pid.SetParam("Kd", 9)
	pid.SetParam("Target", 7)
	p := pid.GetParams()
	if p["Kd"] != 9 || p["Target"] != 7 || p["Kp"] != 1 {
		t.Errorf("params = %v", p)
	}
}

func newGen(rate float64) *generator.Generator {
	cfg := generator.DefaultConfig()
	cfg.SpawnRate = rate
	return generator.New(cfg, rand.New(rand.NewSource(1)))
}

func TestGovernorSteersSpawnRate(t *testing.T) {
	gen := newGen(1)
	gov := NewGovernor(gen, NewPID(0.5, 0, 0, 20), 8)

	if r := gov.Update(10, 0); r != 6 {
		t.Errorf("rate below target = %g, want 6", r)
	}
	if gen.Config().SpawnRate != 6 {
		t.Errorf("generator rate = %g, want 6", gen.Config().SpawnRate)
	}
	if r := gov.Update(0, 0.1); r != 8 {
		t.Errorf("rate should clamp at max, got %g", r)
	}
	if r := gov.Update(40, 0.2); r != 0 {
		t.Errorf("rate above target should floor at 0, got %g", r)
	}

	gov.Reset()
	if gen.Config().SpawnRate != 1 || gov.Rate() != 1 {
		t.Errorf("reset should restore base rate, got %g", gen.Config().SpawnRate)
	}
}

func TestGovernorAsObserver(t *testing.T) {
	gen := newGen(0)
	gov := NewGovernor(gen, NewPID(1, 0, 0, 5), 0)
	var _ sim.Observer = gov

	gov.OnStep(&sim.Frame{Time: 0, Particles: make([]particle.Particle, 2)})
	if gov.Rate() != 3 {
		t.Errorf("rate = %g, want 3", gov.Rate())
	}
}
