package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mkravets/sdeconv/internal/sde"
)

// Decay is the scalar linear system dx/dt = -λx. Its linearized process
// z' = -λz + ẇ is an Ornstein-Uhlenbeck process with known covariance,
// which makes the model the reference case for validating the empirical
// sensitivity against the closed form.
type Decay struct {
	Lambda float64
}

func NewDecay() *Decay {
	return &Decay{Lambda: 1.0}
}

func (d *Decay) Name() string { return "decay" }
func (d *Decay) Dim() int     { return 1 }

func (d *Decay) Drift(dst, x sde.State, _ float64) {
	dst[0] = -d.Lambda * x[0]
}

func (d *Decay) Jacobian(dst *mat.Dense, _ sde.State, _ float64) {
	dst.Set(0, 0, -d.Lambda)
}

// SensitivityBound is Var z(tEnd) for dz = -λz dt + dW, z(0) = 0:
// ∫₀ᵀ e^{-2λ(T-s)} ds = (1 - e^{-2λT}) / (2λ).
func (d *Decay) SensitivityBound(tEnd float64) float64 {
	if d.Lambda == 0 {
		return tEnd
	}
	return (1 - math.Exp(-2*d.Lambda*tEnd)) / (2 * d.Lambda)
}
