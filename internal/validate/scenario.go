package validate

import (
	"fmt"

	"github.com/mkravets/sdeconv/internal/models"
	"github.com/mkravets/sdeconv/internal/sde"
)

// Scenario is one (model, initial condition) validation unit: a time
// interval, a fixed step, a decreasing ε sequence and the moment exponents
// to estimate. Immutable once constructed.
type Scenario struct {
	Name  string
	Model models.Model
	X0    sde.State

	T0   float64
	TEnd float64
	Dt   float64

	Eps []float64
	Rs  []float64

	Samples   int
	NormOrder float64
	Seed      uint64
	Workers   int
}

// Validate rejects configuration errors before any simulation work begins.
func (s *Scenario) Validate() error {
	switch {
	case s.Model == nil:
		return fmt.Errorf("%w: scenario %q has no model", sde.ErrBadConfig, s.Name)
	case len(s.X0) != s.Model.Dim():
		return fmt.Errorf("%w: scenario %q: x0 has %d components, model %q expects %d",
			sde.ErrDimensionMismatch, s.Name, len(s.X0), s.Model.Name(), s.Model.Dim())
	case s.Dt <= 0:
		return fmt.Errorf("%w: scenario %q: dt must be positive, got %g", sde.ErrBadConfig, s.Name, s.Dt)
	case s.TEnd <= s.T0:
		return fmt.Errorf("%w: scenario %q: empty time interval [%g, %g]", sde.ErrBadConfig, s.Name, s.T0, s.TEnd)
	case len(s.Eps) == 0:
		return fmt.Errorf("%w: scenario %q: empty eps list", sde.ErrBadConfig, s.Name)
	case len(s.Rs) == 0:
		return fmt.Errorf("%w: scenario %q: empty exponent list", sde.ErrBadConfig, s.Name)
	case s.Samples <= 0:
		return fmt.Errorf("%w: scenario %q: sample count must be positive, got %d", sde.ErrBadConfig, s.Name, s.Samples)
	case s.NormOrder < 1:
		return fmt.Errorf("%w: scenario %q: norm order must be >= 1, got %g", sde.ErrBadConfig, s.Name, s.NormOrder)
	}
	for _, eps := range s.Eps {
		if eps <= 0 {
			return fmt.Errorf("%w: scenario %q: eps values must be positive, got %g", sde.ErrBadConfig, s.Name, eps)
		}
	}
	return nil
}
