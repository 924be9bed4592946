package montecarlo

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mkravets/sdeconv/internal/sde"
)

type Config struct {
	Samples int
	Seed    uint64

	// Workers bounds the number of goroutines simulating samples.
	// Zero or negative means GOMAXPROCS.
	Workers int
}

// Simulate integrates Samples independent realizations of the augmented
// system with the explicit Euler-Maruyama scheme and returns their terminal
// states. Each sample uses its own PCG random stream seeded (Seed, index),
// so paths are independent across samples and deterministic for a fixed
// seed. Workers write disjoint columns of a freshly allocated batch; the
// result is never aliased by later calls.
//
// newSystem is called once per worker so scratch buffers are not shared.
func Simulate(newSystem func() sde.System, x0 sde.State, t0, tEnd, dt float64, cfg Config) (*Batch, error) {
	if cfg.Samples <= 0 {
		return nil, fmt.Errorf("%w: sample count must be positive, got %d", sde.ErrBadConfig, cfg.Samples)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("%w: dt must be positive, got %g", sde.ErrBadConfig, dt)
	}
	if tEnd <= t0 {
		return nil, fmt.Errorf("%w: empty time interval [%g, %g]", sde.ErrBadConfig, t0, tEnd)
	}

	probe := newSystem()
	dim := probe.Dim()
	if len(x0) != dim {
		return nil, fmt.Errorf("%w: x0 has %d components, system expects %d", sde.ErrDimensionMismatch, len(x0), dim)
	}

	steps := int((tEnd-t0)/dt + 0.5)
	if steps < 1 {
		steps = 1
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cfg.Samples {
		workers = cfg.Samples
	}

	batch := NewBatch(dim, cfg.Samples)
	errs := make([]error, workers)
	chunk := (cfg.Samples + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > cfg.Samples {
			end = cfg.Samples
		}
		go func(w, start, end int) {
			defer wg.Done()
			sys := newSystem()
			errs[w] = runSamples(sys, batch, x0, t0, dt, steps, start, end, cfg.Seed)
		}(w, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return batch, nil
}

func runSamples(sys sde.System, batch *Batch, x0 sde.State, t0, dt float64, steps, start, end int, seed uint64) error {
	dim := sys.Dim()
	noiseDim := sys.NoiseDim()
	sqrtDt := math.Sqrt(dt)

	x := make(sde.State, dim)
	drift := make(sde.State, dim)
	dw := make([]float64, noiseDim)

	for j := start; j < end; j++ {
		normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, uint64(j))}

		copy(x, x0)
		for i := 0; i < steps; i++ {
			t := t0 + float64(i)*dt
			sys.Drift(drift, x, t)
			for k := range x {
				x[k] += dt * drift[k]
			}
			for k := 0; k < noiseDim; k++ {
				dw[k] = sqrtDt * normal.Rand()
			}
			sys.ApplyNoise(x, dw, t)

			if !x.IsValid() {
				return &sde.StepError{Sample: j, Step: i, Time: t, Wrapped: sde.ErrDiverged}
			}
		}
		copy(batch.Col(j), x)
	}
	return nil
}
