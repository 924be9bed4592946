package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/mkravets/sdeconv/internal/sde"
)

// AbsMoment is the sample mean of ‖col‖_p^r over the columns.
func AbsMoment(cols [][]float64, r, p float64) float64 {
	if len(cols) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, c := range cols {
		sum += math.Pow(floats.Norm(c, p), r)
	}
	return sum / float64(len(cols))
}

// MeanVec is the component-wise sample mean of the columns.
func MeanVec(cols [][]float64) []float64 {
	d := len(cols[0])
	m := make([]float64, d)
	for _, c := range cols {
		floats.Add(m, c)
	}
	floats.Scale(1/float64(len(cols)), m)
	return m
}

// Covariance is the (N-1)-normalized sample covariance of the columns,
// symmetric positive semi-definite by construction.
func Covariance(cols [][]float64) (*mat.SymDense, error) {
	n := len(cols)
	if n < 2 {
		return nil, fmt.Errorf("%w: covariance needs at least 2 samples, got %d", sde.ErrBadConfig, n)
	}
	d := len(cols[0])
	obs := mat.NewDense(n, d, nil)
	for i, c := range cols {
		obs.SetRow(i, c)
	}
	cov := mat.NewSymDense(d, nil)
	stat.CovarianceMatrix(cov, obs, nil)
	return cov, nil
}

// MaxSymEigen returns the largest eigenvalue of a. Well-defined for
// singular (rank-deficient) symmetric matrices.
func MaxSymEigen(a *mat.SymDense) (float64, error) {
	var eig mat.EigenSym
	if !eig.Factorize(a, false) {
		return 0, errors.New("stats: symmetric eigendecomposition failed to converge")
	}
	vals := eig.Values(nil)
	return vals[len(vals)-1], nil
}
