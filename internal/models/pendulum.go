package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mkravets/sdeconv/internal/sde"
)

// Pendulum is a damped pendulum without external torque.
// State: [θ, ω].
type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
	}
}

func (p *Pendulum) Name() string { return "pendulum" }
func (p *Pendulum) Dim() int     { return 2 }

func (p *Pendulum) Drift(dst, x sde.State, _ float64) {
	theta := x[0]
	omega := x[1]

	ml2 := p.Mass * p.Length * p.Length
	dst[0] = omega
	dst[1] = (-p.Damping*omega - p.Mass*p.Gravity*p.Length*math.Sin(theta)) / ml2
}

func (p *Pendulum) Jacobian(dst *mat.Dense, x sde.State, _ float64) {
	theta := x[0]

	ml2 := p.Mass * p.Length * p.Length
	dst.Set(0, 0, 0)
	dst.Set(0, 1, 1)
	dst.Set(1, 0, -p.Mass*p.Gravity*p.Length*math.Cos(theta)/ml2)
	dst.Set(1, 1, -p.Damping/ml2)
}
