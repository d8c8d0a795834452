package particle

import (
	"math"
	"testing"

	"github.com/san-kum/bubblechamber/internal/dynamo"
)

func TestNewFloorsMass(t *testing.T) {
	tests := []struct {
		mass, want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{6, 6},
	}

	for _, tt := range tests {
		p := New(dynamo.Vec3{}, dynamo.Vec3{}, 1, tt.mass, 0, 1)
		if p.Mass != tt.want {
			t.Errorf("New(mass=%d).Mass = %d, want %d", tt.mass, p.Mass, tt.want)
		}
	}
}

func TestNewSeedsPath(t *testing.T) {
	pos := dynamo.Vec3{X: 3, Y: 4}
	p := New(pos, dynamo.Vec3{X: 1}, -2, 3, 1, 2.5)

	if !p.Alive {
		t.Error("new particle should be alive")
	}
	if p.TrailLen() != 1 {
		t.Fatalf("expected one trail point, got %d", p.TrailLen())
	}
	if got := p.Path.At(0); got != pos {
		t.Errorf("trail starts at %v, want %v", got, pos)
	}
	if p.Lifetime != 0 || p.DecaysAfter != 2.5 {
		t.Errorf("unexpected lifetime fields: %f / %f", p.Lifetime, p.DecaysAfter)
	}
}

func TestNewWithPathResetsBuffer(t *testing.T) {
	path := NewPath(4)
	path.PushBack(dynamo.Vec3{X: 9})
	path.PushBack(dynamo.Vec3{X: 9})

	p := NewWithPath(path, dynamo.Vec3{X: 1}, dynamo.Vec3{}, 1, 1, 0, 1)
	if p.TrailLen() != 1 || p.Path.At(0).X != 1 {
		t.Errorf("reused path not reset: %v", p.Path.Points())
	}
}

func TestLifecycle(t *testing.T) {
	p := New(dynamo.Vec3{}, dynamo.Vec3{}, 1, 2, 0, 1)
	if p.State() != Alive {
		t.Errorf("expected alive, got %s", p.State())
	}

	p.Alive = false
	if p.State() != Decaying {
		t.Errorf("expected decaying, got %s", p.State())
	}

	p.Path.PopFront()
	if p.State() != Removed {
		t.Errorf("expected removed, got %s", p.State())
	}
}

func TestCanSplit(t *testing.T) {
	tests := []struct {
		mass int
		want bool
	}{
		{-3, false},
		{0, false},
		{1, false},
		{2, true},
		{6, true},
	}
	for _, tt := range tests {
		if got := New(dynamo.Vec3{}, dynamo.Vec3{}, 1, tt.mass, 0, 1).CanSplit(); got != tt.want {
			t.Errorf("mass %d: CanSplit() = %v, want %v", tt.mass, got, tt.want)
		}
	}
}

func TestMomentumAndEnergy(t *testing.T) {
	p := New(dynamo.Vec3{}, dynamo.Vec3{X: 3, Y: 4}, 1, 2, 0, 1)

	if got := p.Momentum(); got != (dynamo.Vec3{X: 6, Y: 8}) {
		t.Errorf("Momentum() = %v", got)
	}
	if got := p.KineticEnergy(); math.Abs(got-25) > 1e-12 {
		t.Errorf("KineticEnergy() = %f, want 25", got)
	}
}

func TestIsValid(t *testing.T) {
	p := New(dynamo.Vec3{}, dynamo.Vec3{X: 1}, 1, 1, 0, 1)
	if !p.IsValid() {
		t.Error("expected valid particle")
	}
	p.Velocity.Y = math.NaN()
	if p.IsValid() {
		t.Error("NaN velocity should be invalid")
	}
}
