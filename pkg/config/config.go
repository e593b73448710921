// Package config loads the YAML run configuration consumed by the CLIs.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// InputConfig describes the raw observed record.
type InputConfig struct {
	Path           string `yaml:"path"`
	DatetimeColumn string `yaml:"datetime_column"`
	RainColumn     string `yaml:"rain_column"`
	Layout         string `yaml:"layout,omitempty"`
}

// LibraryConfig controls water-year classification.
type LibraryConfig struct {
	YearStart   int     `yaml:"year_start"`
	DryFraction float64 `yaml:"dry_fraction"`
	WetFraction float64 `yaml:"wet_fraction"`
}

// GenerateConfig controls one generation batch.
type GenerateConfig struct {
	Count        int    `yaml:"count"`
	Distribution string `yaml:"distribution"`
	BlockLow     string `yaml:"block_low"`
	BlockHigh    string `yaml:"block_high"`
	Parallelism  int    `yaml:"parallelism"`
	Seed         uint64 `yaml:"seed"`
	Digits       int    `yaml:"digits"`
}

// OutputConfig controls where results land.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Prefix   string `yaml:"prefix"`
	SkipInfo bool   `yaml:"skip_info,omitempty"`
	Snapshot string `yaml:"snapshot,omitempty"`
	Catalog  string `yaml:"catalog,omitempty"`
}

// RunConfig is the complete configuration for one generation run.
type RunConfig struct {
	Input    InputConfig    `yaml:"input"`
	Library  LibraryConfig  `yaml:"library"`
	Generate GenerateConfig `yaml:"generate"`
	Output   OutputConfig   `yaml:"output"`
}

// Default returns a RunConfig with the conventional defaults filled in.
func Default() RunConfig {
	return RunConfig{
		Input: InputConfig{
			DatetimeColumn: "datetime",
			RainColumn:     "P",
		},
		Library: LibraryConfig{
			YearStart:   9,
			DryFraction: 0.25,
			WetFraction: 0.75,
		},
		Generate: GenerateConfig{
			Count:        100,
			Distribution: "gamma",
			BlockLow:     "6h",
			BlockHigh:    "168h",
			Parallelism:  1,
			Digits:       2,
		},
		Output: OutputConfig{
			Dir: ".",
		},
	}
}

// Load reads a RunConfig from a YAML file, applying defaults for any field
// the file leaves unset.
func Load(path string) (*RunConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Input.Path == "" {
		return nil, fmt.Errorf("config %s: input.path is required", path)
	}
	if _, err := cfg.BlockBounds(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// BlockBounds parses the block duration bounds.
func (c *RunConfig) BlockBounds() ([2]time.Duration, error) {
	low, err := time.ParseDuration(c.Generate.BlockLow)
	if err != nil {
		return [2]time.Duration{}, fmt.Errorf("generate.block_low %q: %w", c.Generate.BlockLow, err)
	}
	high, err := time.ParseDuration(c.Generate.BlockHigh)
	if err != nil {
		return [2]time.Duration{}, fmt.Errorf("generate.block_high %q: %w", c.Generate.BlockHigh, err)
	}
	return [2]time.Duration{low, high}, nil
}
