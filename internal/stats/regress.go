package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/mkravets/sdeconv/internal/sde"
)

// Fit is an ordinary least squares line in log-log coordinates. The slope
// is the empirical convergence exponent of statistic(ε) ≈ C·ε^slope.
type Fit struct {
	Slope     float64
	Intercept float64

	// Fitted holds exp(intercept + slope·log ε) aligned with the input εs.
	Fitted []float64
}

// FitLogLog regresses log(vals) on log(eps) with an intercept term.
// Fewer than two points, or any point whose logarithm is not finite
// (zero, negative or non-finite statistics), is a reported error for the
// series rather than a silent NaN.
func FitLogLog(eps, vals []float64) (*Fit, error) {
	if len(eps) != len(vals) {
		return nil, fmt.Errorf("%w: %d eps values, %d statistics", sde.ErrDimensionMismatch, len(eps), len(vals))
	}
	if len(eps) < 2 {
		return nil, fmt.Errorf("%w: log-log fit needs at least 2 points, got %d", sde.ErrBadConfig, len(eps))
	}

	logx := make([]float64, len(eps))
	logy := make([]float64, len(vals))
	for i := range eps {
		logx[i] = math.Log(eps[i])
		logy[i] = math.Log(vals[i])
		if math.IsNaN(logx[i]) || math.IsInf(logx[i], 0) {
			return nil, fmt.Errorf("%w: eps[%d]=%g has no finite logarithm", sde.ErrBadConfig, i, eps[i])
		}
		if math.IsNaN(logy[i]) || math.IsInf(logy[i], 0) {
			return nil, fmt.Errorf("%w: statistic[%d]=%g has no finite logarithm", sde.ErrBadConfig, i, vals[i])
		}
	}

	intercept, slope := stat.LinearRegression(logx, logy, nil, false)

	fitted := make([]float64, len(eps))
	for i := range fitted {
		fitted[i] = math.Exp(intercept + slope*logx[i])
	}

	return &Fit{Slope: slope, Intercept: intercept, Fitted: fitted}, nil
}
