package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mkravets/sdeconv/internal/models"
)

func TestDefaultConfigScenariosValidate(t *testing.T) {
	cfg := DefaultConfig()
	reg := models.NewRegistry()

	if len(cfg.Scenarios) == 0 {
		t.Fatal("default config has no scenarios")
	}
	for _, sc := range cfg.Scenarios {
		scn, err := sc.ToScenario(reg)
		if err != nil {
			t.Fatalf("scenario %q: %v", sc.Name, err)
		}
		if err := scn.Validate(); err != nil {
			t.Errorf("scenario %q: %v", sc.Name, err)
		}
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sdeconv.yaml")

	want := DefaultConfig()
	want.CacheDir = "elsewhere"
	want.Reload = false
	want.Scenarios[0].Eps = []float64{0.2, 0.02}
	want.Scenarios[0].Workers = 3

	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.CacheDir != "elsewhere" || got.Reload || !got.Persist {
		t.Errorf("top-level fields did not round trip: %+v", got)
	}
	if len(got.Scenarios) != 1 {
		t.Fatalf("expected 1 scenario, got %d", len(got.Scenarios))
	}
	sc := got.Scenarios[0]
	if sc.Workers != 3 || len(sc.Eps) != 2 || sc.Eps[0] != 0.2 {
		t.Errorf("scenario did not round trip: %+v", sc)
	}
}

func TestLoadFillsDefaultScenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparse.yaml")
	if err := os.WriteFile(path, []byte("cache_dir: /tmp/r\nreload: true\npersist: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CacheDir != "/tmp/r" {
		t.Errorf("cache_dir %q", cfg.CacheDir)
	}
	if len(cfg.Scenarios) == 0 {
		t.Error("expected default scenarios when the file lists none")
	}
}

func TestToScenarioFillsDefaults(t *testing.T) {
	sc := ScenarioConfig{
		Model: "decay",
		X0:    []float64{1.0},
		Eps:   []float64{0.1, 0.01},
		Rs:    []float64{1},
	}

	scn, err := sc.ToScenario(models.NewRegistry())
	if err != nil {
		t.Fatalf("to scenario: %v", err)
	}

	if scn.Name != "decay" {
		t.Errorf("name %q, expected model name fallback", scn.Name)
	}
	if scn.Dt != DefaultDt || scn.TEnd != DefaultTEnd || scn.Samples != DefaultSamples {
		t.Errorf("numeric defaults not filled: %+v", scn)
	}
	if scn.NormOrder != DefaultNormOrder || scn.Seed != DefaultSeed {
		t.Errorf("estimator defaults not filled: %+v", scn)
	}
	if err := scn.Validate(); err != nil {
		t.Errorf("defaulted scenario invalid: %v", err)
	}
}

func TestToScenarioUnknownModel(t *testing.T) {
	sc := ScenarioConfig{Model: "lorenz96"}
	if _, err := sc.ToScenario(models.NewRegistry()); err == nil {
		t.Error("expected unknown model error")
	}
}
