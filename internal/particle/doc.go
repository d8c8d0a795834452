// Package particle defines the charged particle entity and its trail.
//
// A [Particle] moves through three lifecycle states:
//
//	Alive ──(lifetime >= DecaysAfter)──▶ Decaying ──(trail empty)──▶ Removed
//
// While alive the step engine appends one trail point per frame; once
// decaying it drops the oldest point per frame so the trail visibly shrinks
// before the particle is removed. The [Path] deque supports both ends in
// O(1), and [PathPool] recycles trail buffers across the population churn.
package particle
