// Package physics holds the chamber environment and the force law that
// drives every particle in it.
//
// The only force is the magnetic part of the Lorentz force,
//
//	F = q (v × B)
//
// which bends trajectories into helices around the field without doing
// work. Friction removes energy at a rate set by [Chamber.Friction]:
//
//	v ← v · (1 - friction·dt)
//
// The damping factor is applied literally, so friction·dt > 1 flips the
// velocity. Configurations that would do so are flagged at load time.
package physics
