// Package config holds engine tuning loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tmavro/edict/engine/score"
)

// Classifier tunes the intent classification boundary.
type Classifier struct {
	// Threshold is the minimum confidence a classification needs before the
	// engine runs an auction for it.
	Threshold float64 `yaml:"threshold"`
	// DryRunPrefix marks a command as a dry run when it starts with this
	// word ("simulate open the door").
	DryRunPrefix string `yaml:"dry_run_prefix"`
}

// Config is the full engine tuning.
type Config struct {
	Weights    score.Weights `yaml:"weights"`
	Classifier Classifier    `yaml:"classifier"`
}

// Default returns the stock tuning.
func Default() Config {
	return Config{
		Weights: score.DefaultWeights(),
		Classifier: Classifier{
			Threshold:    0.5,
			DryRunPrefix: "simulate",
		},
	}
}

// Load reads a YAML tuning file layered over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
