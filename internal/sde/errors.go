package sde

import (
	"errors"
	"fmt"
)

// Domain errors for simulation and estimation operations.
var (
	// ErrDiverged indicates a state with NaN or Inf components.
	ErrDiverged = errors.New("sde: state diverged (NaN or Inf detected)")

	// ErrDimensionMismatch indicates mismatched vector/system dimensions.
	ErrDimensionMismatch = errors.New("sde: dimension mismatch")

	// ErrBadConfig indicates an invalid simulation parameter.
	ErrBadConfig = errors.New("sde: invalid configuration")
)

// StepError wraps a failure with the step context it occurred in.
// Sample is -1 for deterministic integration.
type StepError struct {
	Sample  int
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	if e.Sample < 0 {
		return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
	}
	return fmt.Sprintf("sample %d, step %d (t=%.6g): %v", e.Sample, e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
