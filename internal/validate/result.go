package validate

import "github.com/mkravets/sdeconv/internal/stats"

// Record is the r-th absolute-moment estimate of the error quantities for
// one (scenario, r, ε).
type Record struct {
	Eps  float64
	R    float64
	WAbs float64
	YErr float64
	ZErr float64
}

// SensitivityPair compares empirical against theoretical stochastic
// sensitivity at one ε.
type SensitivityPair struct {
	Eps         float64
	Empirical   float64
	Theoretical float64
}

// Failure records a (scenario, ε) unit that could not be completed. Other
// ε results in the same scenario stand.
type Failure struct {
	Eps float64
	Err error
}

// SeriesFits holds the per-exponent log-log fits of the two error series.
// A degenerate series carries its error instead of a fit.
type SeriesFits struct {
	R       float64
	WFit    *stats.Fit // diagnostic: mean ‖y−w‖^r series
	WFitErr error
	YFit    *stats.Fit
	YFitErr error
	ZFit    *stats.Fit
	ZFitErr error
}

// Result is the scenario's output handed to reporting/visualization.
type Result struct {
	Scenario    string
	Theoretical float64

	Records       []Record
	Sensitivities []SensitivityPair
	Fits          []SeriesFits
	Failures      []Failure

	// Estimates keeps the per-ε estimator output (including raw scaled
	// deviation samples) for external visualization, aligned with the
	// successful entries of Sensitivities.
	Estimates []*stats.Estimate
}

// CompletedEps lists the ε values that produced an estimate, in run order.
func (r *Result) CompletedEps() []float64 {
	eps := make([]float64, 0, len(r.Estimates))
	for _, e := range r.Estimates {
		eps = append(eps, e.Eps)
	}
	return eps
}
