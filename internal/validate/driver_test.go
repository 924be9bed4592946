package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/mkravets/sdeconv/internal/cache"
	"github.com/mkravets/sdeconv/internal/models"
	"github.com/mkravets/sdeconv/internal/montecarlo"
	"github.com/mkravets/sdeconv/internal/sde"
)

func decayScenario() *Scenario {
	return &Scenario{
		Name:      "decay-x1",
		Model:     models.NewDecay(),
		X0:        sde.State{1.0},
		T0:        0,
		TEnd:      1,
		Dt:        1e-3,
		Eps:       []float64{0.1, 0.01},
		Rs:        []float64{1, 2},
		Samples:   2000,
		NormOrder: 2,
		Seed:      101,
	}
}

func TestScenarioValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"no model", func(s *Scenario) { s.Model = nil }},
		{"wrong x0 dimension", func(s *Scenario) { s.X0 = sde.State{1, 2} }},
		{"zero dt", func(s *Scenario) { s.Dt = 0 }},
		{"empty interval", func(s *Scenario) { s.TEnd = s.T0 }},
		{"empty eps", func(s *Scenario) { s.Eps = nil }},
		{"negative eps", func(s *Scenario) { s.Eps = []float64{0.1, -0.01} }},
		{"empty exponents", func(s *Scenario) { s.Rs = nil }},
		{"zero samples", func(s *Scenario) { s.Samples = 0 }},
		{"norm order below 1", func(s *Scenario) { s.NormOrder = 0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scn := decayScenario()
			tt.mutate(scn)
			if err := scn.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := decayScenario().Validate(); err != nil {
		t.Errorf("valid scenario rejected: %v", err)
	}
}

// TestDriverDecayScenario exercises the full pipeline on the linear decay
// model, where the linearized process reproduces the scaled deviation up
// to rounding, and the sensitivity has a closed form.
func TestDriverDecayScenario(t *testing.T) {
	store := cache.NewMemStore()
	driver := New(cache.New(store, true, true))

	var completed int
	driver.SetObserver(func(ev Event) {
		if ev.Type == EpsCompleted {
			completed++
		}
	})

	scn := decayScenario()
	res, err := driver.Run(scn)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(res.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", res.Failures)
	}
	if completed != 2 {
		t.Errorf("expected 2 completed eps events, got %d", completed)
	}
	if len(res.Records) != 4 {
		t.Fatalf("expected 2 eps × 2 exponents = 4 records, got %d", len(res.Records))
	}
	if len(res.Sensitivities) != 2 {
		t.Fatalf("expected 2 sensitivity pairs, got %d", len(res.Sensitivities))
	}

	// The drift is linear, so y - w - ε·z cancels to rounding noise:
	// the linearized process tracks the scaled deviation.
	for _, rec := range res.Records {
		if rec.ZErr > 1e-8 {
			t.Errorf("eps=%g r=%g: z-error %g, expected rounding-level", rec.Eps, rec.R, rec.ZErr)
		}
		if rec.WAbs <= 0 {
			t.Errorf("eps=%g r=%g: raw distance moment should be positive", rec.Eps, rec.R)
		}
	}

	// Empirical sensitivity against the closed form (1 - e^{-2})/2.
	want := (1 - math.Exp(-2)) / 2
	for _, p := range res.Sensitivities {
		if math.Abs(p.Theoretical-want) > 1e-9 {
			t.Errorf("eps=%g: theoretical %f, expected %f", p.Eps, p.Theoretical, want)
		}
		if math.Abs(p.Empirical-p.Theoretical)/p.Theoretical > 0.15 {
			t.Errorf("eps=%g: empirical sensitivity %f vs theoretical %f", p.Eps, p.Empirical, p.Theoretical)
		}
	}

	// mean ‖y−w‖ scales linearly in ε for the linear model, so the
	// diagnostic series must fit a power law with slope ≈ r.
	for _, f := range res.Fits {
		if f.WFitErr != nil {
			t.Fatalf("r=%g: diagnostic fit failed: %v", f.R, f.WFitErr)
		}
		if math.Abs(f.WFit.Slope-f.R) > 0.25 {
			t.Errorf("r=%g: |y-w| slope %f, expected ≈%g", f.R, f.WFit.Slope, f.R)
		}
	}

	if store.Len() != 2 {
		t.Errorf("expected 2 persisted batches, got %d", store.Len())
	}
	if len(res.Estimates) != 2 || len(res.Estimates[0].ZDev) != scn.Samples {
		t.Error("expected raw deviation samples on the result")
	}
}

// TestDriverReloadIsBitIdentical runs the same scenario twice against one
// store; the second run must reproduce the first from cache exactly.
func TestDriverReloadIsBitIdentical(t *testing.T) {
	store := cache.NewMemStore()

	first, err := New(cache.New(store, true, true)).Run(decayScenario())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := New(cache.New(store, true, true)).Run(decayScenario())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	for i := range first.Records {
		if first.Records[i] != second.Records[i] {
			t.Fatalf("record %d differs after reload: %+v vs %+v", i, first.Records[i], second.Records[i])
		}
	}
	for i := range first.Sensitivities {
		if first.Sensitivities[i] != second.Sensitivities[i] {
			t.Fatalf("sensitivity pair %d differs after reload", i)
		}
	}
}

// TestDriverIsolatesFailingEps poisons the cache entry for one ε and
// checks that the other ε still completes.
func TestDriverIsolatesFailingEps(t *testing.T) {
	scn := decayScenario()
	store := cache.NewMemStore()

	// A stored entry for eps=0.1 whose parameters disagree with the key.
	key := cache.Key{Scenario: scn.Name, X0: scn.X0, Eps: 0.1, N: scn.Samples, Dim: 2, Dt: scn.Dt}
	stale := key.Meta()
	stale.N = 1
	wrong := montecarlo.NewBatch(2, scn.Samples)
	if err := store.Save(key.String(), &cache.Entry{Meta: stale, Batch: wrong}); err != nil {
		t.Fatal(err)
	}

	res, err := New(cache.New(store, true, true)).Run(scn)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(res.Failures) != 1 || res.Failures[0].Eps != 0.1 {
		t.Fatalf("expected one failure at eps=0.1, got %+v", res.Failures)
	}
	if len(res.Sensitivities) != 1 || res.Sensitivities[0].Eps != 0.01 {
		t.Fatalf("expected eps=0.01 to complete, got %+v", res.Sensitivities)
	}

	// A single surviving point cannot be regressed; the error is
	// reported per series, not silently dropped.
	for _, f := range res.Fits {
		if f.ZFitErr == nil {
			t.Errorf("r=%g: expected degenerate regression to be reported", f.R)
		}
	}
}

func TestDriverRejectsBadScenario(t *testing.T) {
	driver := New(cache.New(cache.NewMemStore(), true, true))

	scn := decayScenario()
	scn.Eps = nil
	if _, err := driver.Run(scn); !errors.Is(err, sde.ErrBadConfig) {
		t.Errorf("expected ErrBadConfig, got %v", err)
	}
}
