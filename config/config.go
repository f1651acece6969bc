// Package config handles surrogate pipeline configuration loading.
package config

import "math"
import "os"
import "path/filepath"

import "github.com/pkg/errors"
import "gopkg.in/yaml.v3"

import "github.com/neurlang/surrogate/datasets"
import "github.com/neurlang/surrogate/elastic"
import "github.com/neurlang/surrogate/errs"

// Config is the root configuration structure.
type Config struct {
	Material MaterialConfig `yaml:"material"`
	Samples  SamplesConfig  `yaml:"samples"`
	Split    []float64      `yaml:"split"` // train, validation, test fractions
	Training TrainingConfig `yaml:"training"`
	Seed     int64          `yaml:"seed"`
	Output   string         `yaml:"output"` // artifact directory
}

// MaterialConfig holds the elastic constants.
type MaterialConfig struct {
	YoungsModulus float64 `yaml:"youngs_modulus"`
	PoissonRatio  float64 `yaml:"poisson_ratio"`
}

// SamplesConfig holds synthetic sample generation settings.
type SamplesConfig struct {
	Count        int     `yaml:"count"`
	MaxAbsStrain float64 `yaml:"max_abs_strain"` // equivalent strain cap
	StrainsPath  string  `yaml:"strains_path"`
	StressesPath string  `yaml:"stresses_path"`
}

// TrainingConfig holds training settings.
type TrainingConfig struct {
	Epochs    int  `yaml:"epochs"`
	Slow      bool `yaml:"slow"`       // robust amsgrad optimizer profile
	BatchSize int  `yaml:"batch_size"` // 0 trains on the full batch
	Threads   int  `yaml:"threads"`    // 0 uses the physical core count
	Printer   int  `yaml:"printer"`    // log every this many epochs
	Resume    bool `yaml:"resume"`     // continue from the weights in the output directory
	Quiet     bool `yaml:"quiet"`      // no progress bar on stdout
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Material: MaterialConfig{
			YoungsModulus: 200e9,
			PoissonRatio:  0.3,
		},
		Samples: SamplesConfig{
			Count:        10000,
			MaxAbsStrain: 0.00005,
			StrainsPath:  "strains",
			StressesPath: "stresses",
		},
		Split: []float64{0.7, 0.2, 0.1},
		Training: TrainingConfig{
			Epochs:  300,
			Slow:    true,
			Printer: 10,
		},
		Seed:   2,
		Output: "out",
	}
}

// Load reads a YAML configuration file over the defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.IO("config.Load", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errs.Corrupt("config.Load", path, "%v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when it is set, the defaults otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	return Load(path)
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.IO("config.Save", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.IO("config.Save", path, err)
	}
	return nil
}

// Validate checks the physical and split parameters. The first offending
// field is reported as a configuration error.
func (c *Config) Validate() error {
	if _, err := c.Parameters(); err != nil {
		return err
	}
	if c.Samples.Count <= 0 {
		return errs.Configuration("samples.count", "> 0", c.Samples.Count)
	}
	if !(c.Samples.MaxAbsStrain > 0) || math.IsInf(c.Samples.MaxAbsStrain, 0) {
		return errs.Configuration("samples.max_abs_strain", "> 0", c.Samples.MaxAbsStrain)
	}
	if len(c.Split) != 3 {
		return errs.Configuration("split", "3 fractions", len(c.Split))
	}
	train, _, err := datasets.Sizes(c.Samples.Count, c.Fractions())
	if err != nil {
		return err
	}
	if train == 0 {
		return errs.Configuration("split", "at least one training sample", train)
	}
	if c.Training.Epochs <= 0 {
		return errs.Configuration("training.epochs", "> 0", c.Training.Epochs)
	}
	if c.Training.BatchSize < 0 {
		return errs.Configuration("training.batch_size", ">= 0", c.Training.BatchSize)
	}
	if c.Training.Threads < 0 {
		return errs.Configuration("training.threads", ">= 0", c.Training.Threads)
	}
	return nil
}

// Parameters derives the Lamé parameters of the configured material.
func (c *Config) Parameters() (elastic.Parameters, error) {
	return elastic.FromEngineering(c.Material.YoungsModulus, c.Material.PoissonRatio)
}

// Fractions returns the split fractions as a triple.
func (c *Config) Fractions() (f [3]float64) {
	copy(f[:], c.Split)
	return
}
