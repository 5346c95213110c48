// Package commands implements the dtdl2md subcommands.
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RealEstateCore/DTDL2MD/config"
	"github.com/RealEstateCore/DTDL2MD/dtdl"
	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/RealEstateCore/DTDL2MD/logger"
	"github.com/RealEstateCore/DTDL2MD/ontology"
	"github.com/RealEstateCore/DTDL2MD/progress"
)

// flagKeys maps command flags to configuration keys. Flags a command does
// not define are skipped.
var flagKeys = map[string]string{
	"input":      "input.paths",
	"extensions": "input.extensions",
	"output":     "output.path",
	"clean":      "output.clean",
	"index":      "output.index",
	"workers":    "generate.workers",
	"max-depth":  "generate.max_depth",
	"debounce":   "watch.debounce_ms",
	"json-logs":  "log.json",
}

// addInputFlags registers the flags shared by every command that loads an ontology.
func addInputFlags(flags *pflag.FlagSet) {
	flags.StringSliceP("input", "i", nil, "Model files, directories or remote sources (default: .)")
	flags.StringSlice("extensions", nil, "Extensions of model files in directories (default: .json)")
}

// loadConfig resolves configuration for cmd: defaults, config file, env and the command's flags.
func loadConfig(cmd *cobra.Command) (*config.Config, *viper.Viper, error) {
	configFile, _ := cmd.Flags().GetString("config")
	v, err := config.New(configFile)
	if err != nil {
		return nil, nil, err
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, nil, errors.Wrapf(err, "bind flag %s", name)
			}
		}
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Log.JSON && !logger.JSONOutput {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(true, verbosity); err != nil {
			return nil, nil, errors.Wrap(err, "failed to initialize logger")
		}
	}
	return cfg, v, nil
}

// loaded is an ontology together with the local paths it was read from.
type loaded struct {
	ont     *ontology.Ontology
	local   []string
	files   []string
	sources []*dtdl.Source
}

func (l *loaded) Cleanup() {
	for _, s := range l.sources {
		s.Cleanup()
	}
}

// watchable returns the local input paths; fetched sources cannot be watched.
func (l *loaded) watchable() []string {
	var paths []string
	for i, s := range l.sources {
		if !s.Fetched {
			paths = append(paths, l.local[i])
		}
	}
	return paths
}

// loadOntology resolves every input, discovers model files and parses them.
// The caller must call Cleanup on the result, also after an error.
func loadOntology(ctx context.Context, cfg *config.Config, emit progress.Emitter) (*loaded, error) {
	log := logger.ComponentLogger("load")
	l := &loaded{}

	emit.EmitStage("load", fmt.Sprintf("resolving %d input(s)", len(cfg.Input.Paths)))
	for _, input := range cfg.Input.Paths {
		src, err := dtdl.ResolveSource(ctx, input, log)
		if err != nil {
			emit.EmitError("load", err)
			return l, err
		}
		l.sources = append(l.sources, src)
		l.local = append(l.local, src.LocalPath)
	}

	files, err := dtdl.Discover(l.local, cfg.Input.Extensions)
	if err != nil {
		emit.EmitError("load", err)
		return l, err
	}
	if len(files) == 0 {
		err := errors.WithHintf(errors.NewInvalidModelError("no model files found in %s", strings.Join(cfg.Input.Paths, ", ")),
			"model files are matched by extension: %s", strings.Join(cfg.Input.Extensions, ", "))
		emit.EmitError("load", err)
		return l, err
	}
	l.files = files

	ont, err := dtdl.Load(files, log)
	if err != nil {
		emit.EmitError("load", err)
		return l, err
	}
	l.ont = ont
	emit.EmitProgress(len(files), map[string]interface{}{"type": "files"})
	return l, nil
}

// newEmitter picks JSON events when logs are JSON, terminal output otherwise.
func newEmitter(cmd *cobra.Command) progress.Emitter {
	if logger.JSONOutput {
		return progress.NewJSONEmitterTo(cmd.OutOrStdout())
	}
	verbosity, _ := cmd.Flags().GetCount("verbose")
	return progress.NewCLIEmitter(verbosity)
}
