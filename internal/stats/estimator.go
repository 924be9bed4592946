package stats

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mkravets/sdeconv/internal/sde"
)

// Moment holds the r-th absolute moments of the error quantities at one ε.
type Moment struct {
	R float64

	// WAbs is mean ‖y − w‖^r, a diagnostic of raw distance to the limit.
	WAbs float64

	// YErr is mean ‖y − w − ε·z‖^r, the primary y-error moment.
	YErr float64

	// ZErr is mean ‖(y − w)/ε − z‖^r, the primary z-error moment.
	ZErr float64
}

// Estimate aggregates everything derived from one realization batch.
type Estimate struct {
	Eps     float64
	Moments []Moment

	YMean []float64
	ZMean []float64
	YCov  *mat.SymDense
	ZCov  *mat.SymDense

	// Sensitivity is the empirical stochastic sensitivity: the largest
	// eigenvalue of the sample covariance of the scaled deviations.
	Sensitivity float64

	// ZDev holds the per-sample scaled deviations (y − w)/ε, exposed for
	// external visualization.
	ZDev [][]float64
}

// NewEstimate derives scaled deviations, absolute moments for every
// exponent in rs (column-wise p-norm), sample means, sample covariances
// and the empirical sensitivity from the terminal samples of one batch.
// yCols and zCols are the y-block and linearized-block columns; w is the
// deterministic limit point.
func NewEstimate(yCols, zCols [][]float64, w []float64, eps float64, rs []float64, p float64) (*Estimate, error) {
	n := len(yCols)
	switch {
	case n == 0 || len(zCols) != n:
		return nil, fmt.Errorf("%w: got %d y-columns and %d z-columns", sde.ErrDimensionMismatch, n, len(zCols))
	case eps <= 0:
		return nil, fmt.Errorf("%w: eps must be positive, got %g", sde.ErrBadConfig, eps)
	case len(rs) == 0:
		return nil, fmt.Errorf("%w: empty exponent list", sde.ErrBadConfig)
	case p < 1:
		return nil, fmt.Errorf("%w: norm order must be >= 1, got %g", sde.ErrBadConfig, p)
	}
	d := len(w)
	if len(yCols[0]) != d || len(zCols[0]) != d {
		return nil, fmt.Errorf("%w: block dimension %d, limit point dimension %d", sde.ErrDimensionMismatch, len(yCols[0]), d)
	}

	wDiff := make([][]float64, n) // y − w
	yErrs := make([][]float64, n) // y − w − ε·z
	zDev := make([][]float64, n)  // (y − w)/ε
	zErrs := make([][]float64, n) // z_ε − z
	for j := 0; j < n; j++ {
		y, z := yCols[j], zCols[j]
		wd := make([]float64, d)
		ye := make([]float64, d)
		zd := make([]float64, d)
		ze := make([]float64, d)
		for i := 0; i < d; i++ {
			wd[i] = y[i] - w[i]
			ye[i] = wd[i] - eps*z[i]
			zd[i] = wd[i] / eps
			ze[i] = zd[i] - z[i]
		}
		wDiff[j], yErrs[j], zDev[j], zErrs[j] = wd, ye, zd, ze
	}

	est := &Estimate{Eps: eps, ZDev: zDev, Moments: make([]Moment, 0, len(rs))}
	for _, r := range rs {
		est.Moments = append(est.Moments, Moment{
			R:    r,
			WAbs: AbsMoment(wDiff, r, p),
			YErr: AbsMoment(yErrs, r, p),
			ZErr: AbsMoment(zErrs, r, p),
		})
	}

	est.YMean = MeanVec(yCols)
	est.ZMean = MeanVec(zDev)

	var err error
	if est.YCov, err = Covariance(yCols); err != nil {
		return nil, err
	}
	if est.ZCov, err = Covariance(zDev); err != nil {
		return nil, err
	}
	if est.Sensitivity, err = MaxSymEigen(est.ZCov); err != nil {
		return nil, err
	}

	// Guard against silent NaN propagation from degenerate inputs.
	for _, m := range est.Moments {
		if !(sde.State{m.WAbs, m.YErr, m.ZErr}).IsValid() {
			return nil, fmt.Errorf("%w: non-finite moment for r=%g", sde.ErrDiverged, m.R)
		}
	}

	return est, nil
}
