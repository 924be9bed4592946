package montecarlo

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mkravets/sdeconv/internal/integrators"
	"github.com/mkravets/sdeconv/internal/models"
	"github.com/mkravets/sdeconv/internal/sde"
)

// Joint is the augmented system [y | z]:
//
//	dy = f(y, t) dt + ε dW
//	dz = J(ξ(t), t) z dt + dW
//
// where ξ is the frozen deterministic trajectory and J the model Jacobian.
// Both halves receive the same increment vector per step: z tracks the
// un-scaled noise, y the ε-scaled noise. This shared-noise coupling is what
// makes the deviation statistics meaningful.
type Joint struct {
	model models.Model
	traj  *integrators.Trajectory
	eps   float64

	jac *mat.Dense
	xi  sde.State
}

func NewJoint(m models.Model, traj *integrators.Trajectory, eps float64) *Joint {
	d := m.Dim()
	return &Joint{
		model: m,
		traj:  traj,
		eps:   eps,
		jac:   mat.NewDense(d, d, nil),
		xi:    make(sde.State, d),
	}
}

// Clone returns a Joint with its own scratch buffers for a parallel worker.
// The model and trajectory are shared read-only.
func (j *Joint) Clone() *Joint {
	return NewJoint(j.model, j.traj, j.eps)
}

func (j *Joint) Dim() int      { return 2 * j.model.Dim() }
func (j *Joint) NoiseDim() int { return j.model.Dim() }

func (j *Joint) Drift(dst, x sde.State, t float64) {
	d := j.model.Dim()

	j.model.Drift(dst[:d], x[:d], t)

	j.traj.AtInto(j.xi, t)
	j.model.Jacobian(j.jac, j.xi, t)
	for r := 0; r < d; r++ {
		sum := 0.0
		for c := 0; c < d; c++ {
			sum += j.jac.At(r, c) * x[d+c]
		}
		dst[d+r] = sum
	}
}

func (j *Joint) ApplyNoise(x sde.State, dw []float64, _ float64) {
	d := j.model.Dim()
	for i := 0; i < d; i++ {
		x[i] += j.eps * dw[i]
		x[d+i] += dw[i]
	}
}

// X0 builds the augmented initial state: y starts at the model's initial
// condition, the variational process starts at zero.
func (j *Joint) X0(x0 sde.State) sde.State {
	aug := make(sde.State, 2*j.model.Dim())
	copy(aug, x0)
	return aug
}
