// Package control closes feedback loops around a running chamber.
//
//   - [PID]: scalar Proportional-Integral-Derivative controller
//   - [Governor]: drives the generator's spawn rate so the population
//     settles at the PID target
//
// # Usage
//
//	gov := control.NewGovernor(gen, control.NewPID(0.2, 0.05, 0, 30), 20)
//	simulator.AddObserver(gov)
//
// A governor is also an observer, so headless runs pick it up the same way
// as metrics. Interactive front ends call [Governor.Update] after each step.
package control
