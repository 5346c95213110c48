package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/RealEstateCore/DTDL2MD/errors"
)

// New returns a Viper instance with defaults, the config file and env binding.
// configFile may be empty to search for FileName from the working directory.
// A missing explicit configFile is an error; a missing searched file is not.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configFile == "" {
		wd, err := os.Getwd()
		if err == nil {
			configFile = FindProjectConfig(wd)
		}
	}
	if configFile == "" {
		return v, nil
	}

	v.SetConfigFile(configFile)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
	}
	return v, nil
}

// Load builds a Viper instance with New and unmarshals it.
func Load(configFile string) (*Config, error) {
	v, err := New(configFile)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper unmarshals and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.WithHint(err, "check "+describeSource(v))
	}
	return &config, nil
}

// Where returns the config file v was read from, or "" when defaults only.
func Where(v *viper.Viper) string {
	return v.ConfigFileUsed()
}

func describeSource(v *viper.Viper) string {
	if f := Where(v); f != "" {
		return f
	}
	return EnvPrefix + "_* environment variables and flags"
}

// FindProjectConfig searches for FileName by walking up from dir.
// Returns the path to the first config file found, or empty string if none found.
func FindProjectConfig(dir string) string {
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, stop searching
			return ""
		}
		dir = parent
	}
}
