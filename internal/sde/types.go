package sde

import "math"

// State is a real vector holding the instantaneous state of a system.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Field is a deterministic vector field dx/dt = f(x, t).
type Field interface {
	Dim() int
	Drift(dst, x State, t float64)
}

// System extends a drift field with a diffusion loading: at each step the
// simulator draws one NoiseDim-dimensional Gaussian increment dw (already
// scaled by sqrt(dt)) and calls ApplyNoise, which adds G(x, t)·dw into x.
// Coupled processes inside an augmented state receive the same dw.
type System interface {
	Field
	NoiseDim() int
	ApplyNoise(x State, dw []float64, t float64)
}
