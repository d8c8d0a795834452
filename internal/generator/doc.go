// Package generator implements every particle-creation policy of the
// chamber: seeding the initial population, splitting decaying particles
// into daughters, and background spawning.
//
// Distributions (all uniform):
//
//	root mass        = MaxDepth (floored to 1)
//	root charge      ∈ ±[1, MaxCharge]
//	root speed (xy)  ∈ [0.5, 1]·SpeedScale, heading ∈ [0, 2π)
//	root vz          ∈ [-0.1, 0.1]·SpeedScale
//	root decay       ∈ RootDecay
//	daughter decay   ∈ DaughterDecay
//
// A split partitions the parent mass among 2 or 3 daughters (each ≥ 1),
// so the daughters' total never exceeds the parent and every lineage
// bottoms out at mass 1 within MaxDepth generations.
package generator
