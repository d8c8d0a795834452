// Package viz renders the chamber in the terminal.
//
// The live view is a Bubble Tea program:
//
//   - [Model]: steps an experiment every tick and draws its trails
//   - [App]: preset picker that opens a [Model]
//   - [Canvas]: braille canvas with per-cell color
//   - [Camera]: perspective projection with spring-smoothed zoom and rotation
//
// Trail colors come from [TrailColor]: hue from charge, brightness rising
// toward the head. The SVG exporter and the window view use the same palette.
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	R       - Reset to a fresh initial population
//	< >     - Simulation speed
//	+ -     - Zoom
//	x y z   - Rotate (shift reverses)
//	0       - Home view
//	T       - Cycle themes
//	B       - Toggle chamber outline
//	G       - Toggle GIF recording
//	?       - Full help
//	Esc     - Back to the preset list (picker only)
package viz
