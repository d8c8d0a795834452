// Package dynamo provides the numeric primitives shared by the chamber
// simulation.
//
//   - [Vec3]: value-type 3-vector used for positions, velocities and fields
//   - domain errors ([ErrParameterBounds], [ErrInvalidState], ...) that
//     configuration and registry code wraps with context
//   - [SimError]: a failure located at a specific step of a headless run
//
// # Example
//
//	v := dynamo.Vec3{X: 1}
//	b := dynamo.Vec3{Z: 1.5}
//	f := v.Cross(b).Scale(float64(charge)) // magnetic Lorentz force
//
// Vec3 is a value type; none of its methods mutate the receiver.
package dynamo
