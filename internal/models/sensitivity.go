package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mkravets/sdeconv/internal/integrators"
	"github.com/mkravets/sdeconv/internal/sde"
	"github.com/mkravets/sdeconv/internal/stats"
)

// TheoreticalSensitivity computes the stochastic sensitivity of m at the
// trajectory's terminal time: the largest eigenvalue of V(tEnd), where V
// solves the first-order covariance (differential Lyapunov) equation
//
//	V' = J(ξ(t), t)·V + V·J(ξ(t), t)ᵀ + I,  V(t0) = 0,
//
// with ξ the deterministic trajectory and unit diffusion, matching the
// linearized process dz = J z dt + dW. The equation is advanced with the
// same fixed-step explicit scheme used everywhere else.
func TheoreticalSensitivity(m Model, traj *integrators.Trajectory, dt float64) (float64, error) {
	if dt <= 0 {
		return 0, fmt.Errorf("%w: dt must be positive, got %g", sde.ErrBadConfig, dt)
	}
	d := m.Dim()
	if traj.Dim() != d {
		return 0, fmt.Errorf("%w: trajectory dimension %d, model %q expects %d", sde.ErrDimensionMismatch, traj.Dim(), m.Name(), d)
	}

	v := mat.NewDense(d, d, nil)
	jac := mat.NewDense(d, d, nil)
	jv := mat.NewDense(d, d, nil)
	vjt := mat.NewDense(d, d, nil)
	xi := make(sde.State, d)

	t0, tEnd := traj.Start(), traj.End()
	steps := int((tEnd-t0)/dt + 0.5)

	for i := 0; i < steps; i++ {
		t := t0 + float64(i)*dt
		traj.AtInto(xi, t)
		m.Jacobian(jac, xi, t)

		jv.Mul(jac, v)
		vjt.Mul(v, jac.T())

		for r := 0; r < d; r++ {
			for c := 0; c < d; c++ {
				dv := jv.At(r, c) + vjt.At(r, c)
				if r == c {
					dv++
				}
				v.Set(r, c, v.At(r, c)+dt*dv)
			}
		}
	}

	// V is symmetric up to roundoff; fold before the eigensolve.
	sym := mat.NewSymDense(d, nil)
	for r := 0; r < d; r++ {
		for c := r; c < d; c++ {
			sym.SetSym(r, c, 0.5*(v.At(r, c)+v.At(c, r)))
		}
	}

	return stats.MaxSymEigen(sym)
}
