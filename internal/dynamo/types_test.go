package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestVec3_Cross(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want Vec3
	}{
		{"x cross y", Vec3{X: 1}, Vec3{Y: 1}, Vec3{Z: 1}},
		{"y cross z", Vec3{Y: 1}, Vec3{Z: 1}, Vec3{X: 1}},
		{"velocity in field", Vec3{X: 1}, Vec3{Z: 1.5}, Vec3{Y: -1.5}},
		{"parallel", Vec3{Z: 2}, Vec3{Z: 1.5}, Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cross(tt.b); got != tt.want {
				t.Errorf("Cross() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3_Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot failed: got %v", got)
	}
}

func TestVec3_Norm(t *testing.T) {
	tests := []struct {
		v        Vec3
		expected float64
	}{
		{Vec3{3, 4, 0}, 5.0},
		{Vec3{1, 0, 0}, 1.0},
		{Vec3{}, 0.0},
		{Vec3{2, 3, 6}, 7.0},
	}

	for _, tt := range tests {
		if got := tt.v.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.v, got, tt.expected)
		}
	}

	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("Normalize of zero vector should be zero")
	}
}

func TestVec3_Perp(t *testing.T) {
	v := Vec3{3, 4, 5}
	got := v.Perp(Vec3{Z: 2})
	if got != (Vec3{3, 4, 0}) {
		t.Errorf("Perp() = %v, want [3 4 0]", got)
	}
}

func TestVec3_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec3
		valid bool
	}{
		{"zero", Vec3{}, true},
		{"normal", Vec3{1, 2, 3}, true},
		{"with NaN", Vec3{1, math.NaN(), 0}, false},
		{"with +Inf", Vec3{math.Inf(1), 0, 0}, false},
		{"with -Inf", Vec3{0, 0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestV3RoundTrip(t *testing.T) {
	a := [3]float64{0, 0, 1.5}
	if V3(a).Array() != a {
		t.Errorf("V3/Array mismatch: %v", V3(a).Array())
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Step: 150, Message: "test error"}
	expected := "step 150 (t=1.5000): test error"
	if err.Error() != expected {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), expected)
	}
}

func TestBoundsErrorUnwrap(t *testing.T) {
	var err error = &BoundsError{Param: "friction", Value: 1.2, Want: "[0,1)"}
	if !errors.Is(err, ErrParameterBounds) {
		t.Error("BoundsError should unwrap to ErrParameterBounds")
	}
	if err.Error() != "dynamo: friction 1.2 out of bounds (want [0,1))" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
