package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a particle whose kinematic state became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrUnknownName indicates a registry lookup (integrator, pattern, preset) failed.
	ErrUnknownName = errors.New("dynamo: unknown name")
)

// BoundsError reports which parameter was rejected and why.
type BoundsError struct {
	Param string
	Value float64
	Want  string
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("dynamo: %s %g out of bounds (want %s)", e.Param, e.Value, e.Want)
}

func (e *BoundsError) Unwrap() error {
	return ErrParameterBounds
}
