// Package gui is the desktop window host for the chamber, built on
// Ebitengine. It shares the camera and trail palette with the terminal
// view in package viz; strokes are as wide as the particle is heavy.
package gui
