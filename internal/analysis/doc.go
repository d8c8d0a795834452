// Package analysis reads physics back out of recorded runs.
//
//   - [FitTrack]: track curvature and transverse momentum, p = |q|·B·r
//   - [DominantFrequency]: strongest oscillation in a population series
//   - [PowerSpectrum]: magnitude spectrum via a radix-2 [FFT]
//
// Tracks spiral inward under friction, so [FitTrack] reports the median
// radius over the whole trail rather than the radius at its head.
package analysis
