// Package config handles TOML run configuration for the command-line tool.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ashergottlieb/vm-specialization/pkg/vm"
)

// Config represents a run configuration file. Flags given on the command
// line override values loaded from the file.
type Config struct {
	Run Run `toml:"run"`
}

// Run configures a single execution.
type Run struct {
	Strategy  string `toml:"strategy"`
	MaxSteps  int64  `toml:"max-steps"`
	Trace     bool   `toml:"trace"`
	Profile   bool   `toml:"profile"`
	DumpState string `toml:"dump-state"`
}

// Load parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	// Defaults
	if c.Run.Strategy == "" {
		c.Run.Strategy = vm.StrategyGeneric.String()
	}

	if _, err := vm.ParseStrategy(c.Run.Strategy); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	if c.Run.MaxSteps < 0 {
		return nil, fmt.Errorf("invalid configuration in %s: max-steps must not be negative", path)
	}

	return &c, nil
}
