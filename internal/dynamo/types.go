package dynamo

import (
	"fmt"
	"math"
)

type Vec3 struct {
	X, Y, Z float64
}

// V3 builds a vector from a [3]float64, the layout used by config files.
func V3(a [3]float64) Vec3 { return Vec3{a[0], a[1], a[2]} }

func (v Vec3) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Norm() float64        { return math.Sqrt(v.Dot(v)) }

// Cross returns v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Normalize() Vec3 {
	if l := v.Norm(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}

// Perp returns the component of v perpendicular to axis.
func (v Vec3) Perp(axis Vec3) Vec3 {
	n := axis.Normalize()
	return v.Sub(n.Scale(v.Dot(n)))
}

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) String() string {
	return fmt.Sprintf("[%.4f %.4f %.4f]", v.X, v.Y, v.Z)
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
