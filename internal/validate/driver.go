package validate

import (
	"fmt"

	"github.com/mkravets/sdeconv/internal/cache"
	"github.com/mkravets/sdeconv/internal/integrators"
	"github.com/mkravets/sdeconv/internal/models"
	"github.com/mkravets/sdeconv/internal/montecarlo"
	"github.com/mkravets/sdeconv/internal/sde"
	"github.com/mkravets/sdeconv/internal/stats"
)

// EventType labels driver progress events.
type EventType int

const (
	ScenarioStarted EventType = iota
	EpsCompleted
	EpsFailed
	ScenarioDone
)

// Event is emitted by the driver as a scenario progresses.
type Event struct {
	Type     EventType
	Scenario string
	Eps      float64
	Index    int // position of Eps in the scenario's sequence
	Total    int
	Estimate *stats.Estimate // set for EpsCompleted
	Err      error           // set for EpsFailed
}

// Observer receives progress events. It is called from the driver's
// goroutine; implementations should return quickly.
type Observer func(Event)

// Driver orchestrates a scenario: one deterministic integration, then per ε
// a simulate-or-reload step and the estimator, then one regression per
// exponent over the accumulated series. It makes no algorithmic decision
// beyond sequencing and accumulation.
type Driver struct {
	cache    *cache.Cache
	observer Observer
}

func New(c *cache.Cache) *Driver {
	return &Driver{cache: c}
}

// SetObserver installs a progress observer. Must be called before Run.
func (d *Driver) SetObserver(obs Observer) { d.observer = obs }

func (d *Driver) emit(ev Event) {
	if d.observer != nil {
		d.observer(ev)
	}
}

// Run executes one scenario. A failing (scenario, ε) unit is recorded and
// skipped; it does not discard results already computed for other ε values.
// Only configuration errors and a diverging deterministic trajectory abort
// the whole scenario.
func (d *Driver) Run(scn *Scenario) (*Result, error) {
	if err := scn.Validate(); err != nil {
		return nil, err
	}

	d.emit(Event{Type: ScenarioStarted, Scenario: scn.Name, Total: len(scn.Eps)})

	integ := integrators.NewEuler()
	traj, err := integ.Integrate(models.AsField(scn.Model), scn.X0, scn.T0, scn.TEnd, scn.Dt)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: deterministic trajectory: %w", scn.Name, err)
	}
	w := traj.Terminal()

	theoretical, err := theoreticalSensitivity(scn, traj)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: theoretical sensitivity: %w", scn.Name, err)
	}

	res := &Result{Scenario: scn.Name, Theoretical: theoretical}
	d2 := 2 * scn.Model.Dim()

	for i, eps := range scn.Eps {
		est, err := d.runEps(scn, traj, w, eps, i, d2)
		if err != nil {
			res.Failures = append(res.Failures, Failure{Eps: eps, Err: err})
			d.emit(Event{Type: EpsFailed, Scenario: scn.Name, Eps: eps, Index: i, Total: len(scn.Eps), Err: err})
			continue
		}

		for _, m := range est.Moments {
			res.Records = append(res.Records, Record{Eps: eps, R: m.R, WAbs: m.WAbs, YErr: m.YErr, ZErr: m.ZErr})
		}
		res.Sensitivities = append(res.Sensitivities, SensitivityPair{
			Eps:         eps,
			Empirical:   est.Sensitivity,
			Theoretical: theoretical,
		})
		res.Estimates = append(res.Estimates, est)
		d.emit(Event{Type: EpsCompleted, Scenario: scn.Name, Eps: eps, Index: i, Total: len(scn.Eps), Estimate: est})
	}

	res.Fits = fitSeries(scn.Rs, res)

	d.emit(Event{Type: ScenarioDone, Scenario: scn.Name, Total: len(scn.Eps)})
	return res, nil
}

func (d *Driver) runEps(scn *Scenario, traj *integrators.Trajectory, w sde.State, eps float64, epsIndex, dim int) (*stats.Estimate, error) {
	key := cache.Key{
		Scenario: scn.Name,
		X0:       scn.X0,
		Eps:      eps,
		N:        scn.Samples,
		Dim:      dim,
		Dt:       scn.Dt,
	}

	joint := montecarlo.NewJoint(scn.Model, traj, eps)
	batch, err := d.cache.GetOrCompute(key, func() (*montecarlo.Batch, error) {
		return montecarlo.Simulate(
			func() sde.System { return joint.Clone() },
			joint.X0(scn.X0),
			scn.T0, scn.TEnd, scn.Dt,
			montecarlo.Config{
				Samples: scn.Samples,
				Seed:    epsSeed(scn.Seed, epsIndex),
				Workers: scn.Workers,
			},
		)
	})
	if err != nil {
		return nil, err
	}

	yCols, zCols, err := batch.Split(scn.Model.Dim())
	if err != nil {
		return nil, err
	}
	return stats.NewEstimate(yCols, zCols, w, eps, scn.Rs, scn.NormOrder)
}

// epsSeed derives an independent stream base per ε iteration.
func epsSeed(seed uint64, epsIndex int) uint64 {
	return seed + uint64(epsIndex+1)*0x9e3779b97f4a7c15
}

func theoreticalSensitivity(scn *Scenario, traj *integrators.Trajectory) (float64, error) {
	if sb, ok := scn.Model.(models.SensitivityBounder); ok {
		return sb.SensitivityBound(scn.TEnd - scn.T0), nil
	}
	return models.TheoreticalSensitivity(scn.Model, traj, scn.Dt)
}

// fitSeries runs the per-exponent power-law regressions over the completed
// ε values. A degenerate series is reported on its fit entry; the other
// series still complete.
func fitSeries(rs []float64, res *Result) []SeriesFits {
	eps := res.CompletedEps()
	fits := make([]SeriesFits, 0, len(rs))

	for _, r := range rs {
		wVals := make([]float64, 0, len(eps))
		yVals := make([]float64, 0, len(eps))
		zVals := make([]float64, 0, len(eps))
		for _, rec := range res.Records {
			if rec.R == r {
				wVals = append(wVals, rec.WAbs)
				yVals = append(yVals, rec.YErr)
				zVals = append(zVals, rec.ZErr)
			}
		}

		sf := SeriesFits{R: r}
		sf.WFit, sf.WFitErr = stats.FitLogLog(eps, wVals)
		sf.YFit, sf.YFitErr = stats.FitLogLog(eps, yVals)
		sf.ZFit, sf.ZFitErr = stats.FitLogLog(eps, zVals)
		fits = append(fits, sf)
	}
	return fits
}
