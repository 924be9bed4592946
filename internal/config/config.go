package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mkravets/sdeconv/internal/models"
	"github.com/mkravets/sdeconv/internal/validate"
)

const (
	DefaultDt        = 1e-4
	DefaultT0        = 0.0
	DefaultTEnd      = 1.0
	DefaultSamples   = 10000
	DefaultNormOrder = 2.0
	DefaultSeed      = 1
	DefaultCacheDir  = "data/realizations"
)

type Config struct {
	CacheDir  string           `yaml:"cache_dir"`
	Reload    bool             `yaml:"reload"`
	Persist   bool             `yaml:"persist"`
	Scenarios []ScenarioConfig `yaml:"scenarios"`
}

type ScenarioConfig struct {
	Name      string    `yaml:"name"`
	Model     string    `yaml:"model"`
	X0        []float64 `yaml:"x0"`
	T0        float64   `yaml:"t0"`
	TEnd      float64   `yaml:"t_end"`
	Dt        float64   `yaml:"dt"`
	Eps       []float64 `yaml:"eps"`
	Rs        []float64 `yaml:"rs"`
	Samples   int       `yaml:"samples"`
	NormOrder float64   `yaml:"norm_order"`
	Seed      uint64    `yaml:"seed"`
	Workers   int       `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		CacheDir: DefaultCacheDir,
		Reload:   true,
		Persist:  true,
		Scenarios: []ScenarioConfig{
			{
				Name:      "decay-x1",
				Model:     "decay",
				X0:        []float64{1.0},
				T0:        DefaultT0,
				TEnd:      DefaultTEnd,
				Dt:        DefaultDt,
				Eps:       []float64{0.1, 0.05, 0.02, 0.01},
				Rs:        []float64{1, 2},
				Samples:   DefaultSamples,
				NormOrder: DefaultNormOrder,
				Seed:      DefaultSeed,
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Scenarios = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Scenarios) == 0 {
		cfg.Scenarios = DefaultConfig().Scenarios
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToScenario resolves the model name against the registry and fills
// defaults for omitted numeric fields.
func (sc ScenarioConfig) ToScenario(reg *models.Registry) (*validate.Scenario, error) {
	m, err := reg.Get(sc.Model)
	if err != nil {
		return nil, err
	}

	scn := &validate.Scenario{
		Name:      sc.Name,
		Model:     m,
		X0:        sc.X0,
		T0:        sc.T0,
		TEnd:      sc.TEnd,
		Dt:        sc.Dt,
		Eps:       sc.Eps,
		Rs:        sc.Rs,
		Samples:   sc.Samples,
		NormOrder: sc.NormOrder,
		Seed:      sc.Seed,
		Workers:   sc.Workers,
	}
	if scn.Name == "" {
		scn.Name = sc.Model
	}
	if scn.Dt == 0 {
		scn.Dt = DefaultDt
	}
	if scn.TEnd == 0 && scn.T0 == 0 {
		scn.TEnd = DefaultTEnd
	}
	if scn.Samples == 0 {
		scn.Samples = DefaultSamples
	}
	if scn.NormOrder == 0 {
		scn.NormOrder = DefaultNormOrder
	}
	if scn.Seed == 0 {
		scn.Seed = DefaultSeed
	}
	return scn, nil
}
