package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mkravets/sdeconv/internal/sde"
)

// VanDerPol implements the Van der Pol oscillator.
// State: [x, y] where y = dx/dt
// Equations:
//
//	dx/dt = y
//	dy/dt = μ(1 - x²)y - x
type VanDerPol struct {
	Mu float64 // Nonlinearity parameter
}

func NewVanDerPol() *VanDerPol {
	return &VanDerPol{
		Mu: 1.0, // Classic value for limit cycle
	}
}

func (v *VanDerPol) Name() string { return "vanderpol" }
func (v *VanDerPol) Dim() int     { return 2 }

func (v *VanDerPol) Drift(dst, state sde.State, _ float64) {
	x, y := state[0], state[1]
	dst[0] = y
	dst[1] = v.Mu*(1-x*x)*y - x
}

func (v *VanDerPol) Jacobian(dst *mat.Dense, state sde.State, _ float64) {
	x, y := state[0], state[1]
	dst.Set(0, 0, 0)
	dst.Set(0, 1, 1)
	dst.Set(1, 0, -2*v.Mu*x*y-1)
	dst.Set(1, 1, v.Mu*(1-x*x))
}
