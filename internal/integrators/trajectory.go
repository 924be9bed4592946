package integrators

import "github.com/mkravets/sdeconv/internal/sde"

// Trajectory is a continuous-time interpolant over the integration grid.
// It is immutable after construction: the simulator reads it as the frozen
// coefficient field of the linearized process, and its terminal value is
// the deterministic limit point.
type Trajectory struct {
	t0     float64
	dt     float64
	states []sde.State
}

// At evaluates the trajectory at t by linear interpolation between grid
// nodes, clamping t to the integration interval. The returned slice is
// freshly allocated.
func (tr *Trajectory) At(t float64) sde.State {
	dst := make(sde.State, len(tr.states[0]))
	tr.AtInto(dst, t)
	return dst
}

// AtInto is the allocation-free form of At.
func (tr *Trajectory) AtInto(dst sde.State, t float64) {
	n := len(tr.states) - 1
	s := (t - tr.t0) / tr.dt
	if s <= 0 {
		copy(dst, tr.states[0])
		return
	}
	if s >= float64(n) {
		copy(dst, tr.states[n])
		return
	}
	i := int(s)
	frac := s - float64(i)
	lo, hi := tr.states[i], tr.states[i+1]
	for k := range dst {
		dst[k] = lo[k] + frac*(hi[k]-lo[k])
	}
}

// Terminal returns w = x(tEnd), the limit point of the perturbed process.
func (tr *Trajectory) Terminal() sde.State {
	return tr.states[len(tr.states)-1].Clone()
}

func (tr *Trajectory) Start() float64 { return tr.t0 }

func (tr *Trajectory) End() float64 {
	return tr.t0 + float64(len(tr.states)-1)*tr.dt
}

// Dim is the state dimension of the underlying field.
func (tr *Trajectory) Dim() int { return len(tr.states[0]) }
