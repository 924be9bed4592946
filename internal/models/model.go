package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mkravets/sdeconv/internal/sde"
)

// Model is a deterministic vector field together with its Jacobian. The
// Jacobian evaluated along the unperturbed trajectory is the frozen
// coefficient field of the linearized (variational) process.
type Model interface {
	Name() string
	Dim() int
	Drift(dst, x sde.State, t float64)
	Jacobian(dst *mat.Dense, x sde.State, t float64)
}

// SensitivityBounder is implemented by models with a closed-form stochastic
// sensitivity (largest eigenvalue of the asymptotic covariance of the
// scaled deviation at time tEnd). When absent, the driver falls back to
// TheoreticalSensitivity.
type SensitivityBounder interface {
	SensitivityBound(tEnd float64) float64
}

// field adapts a Model to sde.Field for the deterministic integrator.
type field struct{ m Model }

func (f field) Dim() int                          { return f.m.Dim() }
func (f field) Drift(dst, x sde.State, t float64) { f.m.Drift(dst, x, t) }

// AsField exposes the model's drift as a plain deterministic field.
func AsField(m Model) sde.Field { return field{m} }
