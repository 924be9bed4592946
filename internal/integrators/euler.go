package integrators

import (
	"fmt"

	"github.com/mkravets/sdeconv/internal/sde"
)

// Euler is the fixed-step explicit first-order scheme
// x_{n+1} = x_n + dt·f(x_n, t_n).
type Euler struct {
	scratch sde.State
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) ensureScratch(n int) {
	if len(e.scratch) != n {
		e.scratch = make(sde.State, n)
	}
}

func (e *Euler) Step(f sde.Field, x sde.State, t, dt float64) sde.State {
	e.ensureScratch(len(x))
	f.Drift(e.scratch, x, t)
	result := make(sde.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*e.scratch[i]
	}
	return result
}

// Integrate advances f from x0 over [t0, tEnd] and records the full grid,
// returning an interpolant over the interval. A non-finite state aborts
// with a StepError naming the offending time.
func (e *Euler) Integrate(f sde.Field, x0 sde.State, t0, tEnd, dt float64) (*Trajectory, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("%w: dt must be positive, got %g", sde.ErrBadConfig, dt)
	}
	if tEnd <= t0 {
		return nil, fmt.Errorf("%w: empty time interval [%g, %g]", sde.ErrBadConfig, t0, tEnd)
	}
	if len(x0) != f.Dim() {
		return nil, fmt.Errorf("%w: x0 has %d components, field expects %d", sde.ErrDimensionMismatch, len(x0), f.Dim())
	}

	steps := int((tEnd-t0)/dt + 0.5)
	if steps < 1 {
		steps = 1
	}

	states := make([]sde.State, 0, steps+1)
	x := x0.Clone()
	states = append(states, x.Clone())

	for i := 0; i < steps; i++ {
		t := t0 + float64(i)*dt
		x = e.Step(f, x, t, dt)
		if !x.IsValid() {
			return nil, &sde.StepError{Sample: -1, Step: i, Time: t, Wrapped: sde.ErrDiverged}
		}
		states = append(states, x.Clone())
	}

	return &Trajectory{t0: t0, dt: dt, states: states}, nil
}
