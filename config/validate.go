package config

import (
	"strings"

	"github.com/RealEstateCore/DTDL2MD/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if len(c.Input.Paths) == 0 {
		return errors.New("input.paths cannot be empty")
	}
	for _, p := range c.Input.Paths {
		if strings.TrimSpace(p) == "" {
			return errors.New("input.paths cannot contain empty entries")
		}
	}
	for _, ext := range c.Input.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.Newf("input.extensions entries must start with '.', got %q", ext)
		}
	}

	if strings.TrimSpace(c.Output.Path) == "" {
		return errors.New("output.path cannot be empty")
	}

	// Workers: 0 would never render anything
	if c.Generate.Workers <= 0 {
		return errors.Newf("generate.workers must be > 0, got %d", c.Generate.Workers)
	}
	if c.Generate.MaxDepth <= 0 {
		return errors.Newf("generate.max_depth must be > 0, got %d", c.Generate.MaxDepth)
	}

	// Watch timings: 0 disables debounce or rate limiting, negative is invalid
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	if c.Watch.MinIntervalMS < 0 {
		return errors.Newf("watch.min_interval_ms must be >= 0, got %d", c.Watch.MinIntervalMS)
	}

	return nil
}
