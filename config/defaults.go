package config

import (
	"github.com/spf13/viper"
)

// Defaults
const (
	DefaultOutputPath    = "docs"
	DefaultWorkers       = 4
	DefaultMaxDepth      = 256
	DefaultDebounceMS    = 500
	DefaultMinIntervalMS = 1000
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input.paths", []string{"."})
	v.SetDefault("input.extensions", []string{".json"})

	v.SetDefault("output.path", DefaultOutputPath)
	v.SetDefault("output.clean", false)
	v.SetDefault("output.index", false)

	v.SetDefault("generate.workers", DefaultWorkers)
	v.SetDefault("generate.max_depth", DefaultMaxDepth)

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)         // Editors write files in bursts
	v.SetDefault("watch.min_interval_ms", DefaultMinIntervalMS) // At most one regeneration per second

	v.SetDefault("log.json", false)
}
