package analysis

import (
	"math"
	"sort"

	"github.com/san-kum/bubblechamber/internal/dynamo"
)

// TrackFit is the curvature measurement of one recorded track.
type TrackFit struct {
	// Radius is the median circumradius over point triplets, in the plane
	// perpendicular to the field. +Inf for a straight track.
	Radius float64
	// Momentum is |q|·|B|·Radius, the transverse momentum a bubble chamber
	// physicist would read off the track.
	Momentum float64
	// Length is the arc length of the projected track.
	Length float64
	// Sense is +1 for counter-clockwise rotation about the field, -1 for
	// clockwise, 0 when undetermined. It gives the sign of the charge.
	Sense int
}

// FitTrack measures a trail. stride spaces the triplet points to beat
// down the noise of short steps; values below 1 use 1.
func FitTrack(points []dynamo.Vec3, field dynamo.Vec3, charge, stride int) TrackFit {
	fit := TrackFit{Radius: math.Inf(1), Momentum: math.Inf(1)}
	if stride < 1 {
		stride = 1
	}
	axis := field.Normalize()
	if axis == (dynamo.Vec3{}) {
		axis = dynamo.Vec3{Z: 1}
	}

	proj := make([]dynamo.Vec3, len(points))
	for i, p := range points {
		proj[i] = p.Perp(axis)
	}
	for i := 1; i < len(proj); i++ {
		fit.Length += proj[i].Sub(proj[i-1]).Norm()
	}

	var radii []float64
	turn := 0.0
	for i := 0; i+2*stride < len(proj); i++ {
		a, b, c := proj[i], proj[i+stride], proj[i+2*stride]
		r, cross := circumradius(a, b, c, axis)
		if !math.IsInf(r, 1) {
			radii = append(radii, r)
		}
		turn += cross
	}
	if len(radii) == 0 {
		return fit
	}

	sort.Float64s(radii)
	fit.Radius = radii[len(radii)/2]
	fit.Momentum = math.Abs(float64(charge)) * field.Norm() * fit.Radius
	switch {
	case turn > 0:
		fit.Sense = 1
	case turn < 0:
		fit.Sense = -1
	}
	return fit
}

// circumradius of triangle abc, plus the signed area about axis.
func circumradius(a, b, c, axis dynamo.Vec3) (float64, float64) {
	ab := b.Sub(a)
	bc := c.Sub(b)
	ca := a.Sub(c)
	n := ab.Cross(bc)
	area2 := n.Norm()
	if area2 < 1e-12 {
		return math.Inf(1), 0
	}
	r := ab.Norm() * bc.Norm() * ca.Norm() / (2 * area2)
	return r, n.Dot(axis)
}
