// Package config carries the knobs of an optimization run. Values come
// from defaults, then environment variables, then an optional YAML file,
// later sources winning.
package config

import (
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"

	"github.com/mbarnett/miropt/inline"
)

// Environment variables consulted by Default.
const (
	EnvInlineCutoff  = "MIROPT_INLINE_CUTOFF"
	EnvInlineMode    = "MIROPT_INLINE_MODE"
	EnvVerbose       = "MIROPT_VERBOSE"
	EnvRemoveAsserts = "MIROPT_REMOVE_ASSERTS"
)

// DefaultInlineCutoff is the cost above which a callee is considered too
// large to inline.
const DefaultInlineCutoff = 100

// Config is one optimization run's settings.
type Config struct {
	// InlineCutoff bounds the callee cost the inlining policy accepts.
	InlineCutoff int `yaml:"inline_cutoff"`
	// InlineMode is "mandatory" or "performance".
	InlineMode string `yaml:"inline_mode"`
	// Verbose disables cost-model early exits so exact totals are
	// reported.
	Verbose bool `yaml:"verbose"`
	// RemoveRuntimeAsserts strips every runtime assertion during
	// combining.
	RemoveRuntimeAsserts bool `yaml:"remove_runtime_asserts"`
}

// Default returns the configuration from environment variables, falling
// back to built-in defaults.
func Default() Config {
	return Config{
		InlineCutoff:         env.Int(EnvInlineCutoff, DefaultInlineCutoff),
		InlineMode:           env.Str(EnvInlineMode, "performance"),
		Verbose:              env.Bool(EnvVerbose),
		RemoveRuntimeAsserts: env.Bool(EnvRemoveAsserts),
	}
}

// Load reads a YAML config file over the environment defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field values that have a closed domain.
func (c Config) Validate() error {
	switch c.InlineMode {
	case "mandatory", "performance":
	default:
		return fmt.Errorf("config: unknown inline mode %q", c.InlineMode)
	}
	if c.InlineCutoff < 0 {
		return fmt.Errorf("config: negative inline cutoff %d", c.InlineCutoff)
	}
	return nil
}

// Mode translates the textual inline mode. Unknown strings fall back to
// performance; Validate rejects them when loading from a file.
func (c Config) Mode() inline.Mode {
	if c.InlineMode == "mandatory" {
		return inline.ModeMandatory
	}
	return inline.ModePerformance
}
