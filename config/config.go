// Package config loads dtdl2md settings with Viper.
//
// Precedence (lowest to highest): defaults < dtdl2md.toml < DTDL2MD_* env vars < flags.
// The config file is the one given with --config, otherwise the first
// dtdl2md.toml found walking up from the working directory.
package config

import (
	"time"
)

// FileName is the project configuration file searched for by Load.
const FileName = "dtdl2md.toml"

// EnvPrefix prefixes environment overrides, e.g. DTDL2MD_OUTPUT_PATH.
const EnvPrefix = "DTDL2MD"

// Config is the full configuration of a dtdl2md invocation.
type Config struct {
	Input    InputConfig    `mapstructure:"input" json:"input" yaml:"input" toml:"input"`
	Output   OutputConfig   `mapstructure:"output" json:"output" yaml:"output" toml:"output"`
	Generate GenerateConfig `mapstructure:"generate" json:"generate" yaml:"generate" toml:"generate"`
	Watch    WatchConfig    `mapstructure:"watch" json:"watch" yaml:"watch" toml:"watch"`
	Log      LogConfig      `mapstructure:"log" json:"log" yaml:"log" toml:"log"`
}

// InputConfig selects the ontology sources.
type InputConfig struct {
	// Paths are files, directories or remote sources (git, http archives, github.com/org/repo)
	Paths []string `mapstructure:"paths" json:"paths" yaml:"paths" toml:"paths"`
	// Extensions of files loaded from directories
	Extensions []string `mapstructure:"extensions" json:"extensions" yaml:"extensions" toml:"extensions"`
}

// OutputConfig controls where documents are written.
type OutputConfig struct {
	Path string `mapstructure:"path" json:"path" yaml:"path" toml:"path"`
	// Clean removes the output directory before writing
	Clean bool `mapstructure:"clean" json:"clean" yaml:"clean" toml:"clean"`
	// Index writes a README.md listing every interface
	Index bool `mapstructure:"index" json:"index" yaml:"index" toml:"index"`
}

// GenerateConfig tunes a generation run.
type GenerateConfig struct {
	Workers  int `mapstructure:"workers" json:"workers" yaml:"workers" toml:"workers"`
	MaxDepth int `mapstructure:"max_depth" json:"max_depth" yaml:"max_depth" toml:"max_depth"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	DebounceMS    int `mapstructure:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms" toml:"debounce_ms"`
	MinIntervalMS int `mapstructure:"min_interval_ms" json:"min_interval_ms" yaml:"min_interval_ms" toml:"min_interval_ms"`
}

// Debounce returns the debounce period as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// MinInterval returns the minimum time between regenerations.
func (w WatchConfig) MinInterval() time.Duration {
	return time.Duration(w.MinIntervalMS) * time.Millisecond
}

// LogConfig controls diagnostics.
type LogConfig struct {
	JSON bool `mapstructure:"json" json:"json" yaml:"json" toml:"json"`
}
