package commands

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/RealEstateCore/DTDL2MD/config"
	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/RealEstateCore/DTDL2MD/logger"
	"github.com/RealEstateCore/DTDL2MD/markdown"
	"github.com/RealEstateCore/DTDL2MD/progress"
)

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that generated documentation is up to date",
	Long: `Regenerate documentation into a temporary directory and compare it with
the output directory. Exits non-zero when any document differs, is missing or
is stale.

Examples:
  dtdl2md check -i ontology/ -o docs/`,
	RunE: runCheck,
}

func init() {
	addInputFlags(CheckCmd.Flags())
	CheckCmd.Flags().StringP("output", "o", "", "Directory holding the committed documentation (default: docs)")
	CheckCmd.Flags().Bool("index", false, "Expect README.md listing every interface")
	CheckCmd.Flags().Int("max-depth", 0, "Maximum inheritance depth (default: 256)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	result, err := checkOutput(cmd.Context(), cfg, progress.NopEmitter{})
	if err != nil {
		return err
	}

	if result.UpToDate() {
		if !logger.JSONOutput {
			pterm.Success.Printfln("Documentation in %s is up to date", cfg.Output.Path)
		}
		return nil
	}

	if !logger.JSONOutput {
		for _, f := range result.Differs {
			pterm.Warning.Printfln("differs: %s", f)
		}
		for _, f := range result.Missing {
			pterm.Warning.Printfln("missing: %s", f)
		}
		for _, f := range result.Stale {
			pterm.Warning.Printfln("stale:   %s", f)
		}
	}
	logger.Warnw("documentation out of date",
		"differs", len(result.Differs),
		"missing", len(result.Missing),
		"stale", len(result.Stale))
	return errors.WithHint(
		errors.Wrapf(errors.ErrOutOfDate, "%s", cfg.Output.Path),
		"run dtdl2md generate --clean to update it")
}

// checkOutput renders into a temporary directory and compares it with cfg.Output.Path.
func checkOutput(ctx context.Context, cfg *config.Config, emit progress.Emitter) (*markdown.CheckResult, error) {
	tmp, err := os.MkdirTemp("", "dtdl2md-check-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tmp)

	l, err := loadOntology(ctx, cfg, emit)
	defer l.Cleanup()
	if err != nil {
		return nil, err
	}

	gen := markdown.NewGenerator(l.ont, markdown.Options{
		Workers:  cfg.Generate.Workers,
		MaxDepth: cfg.Generate.MaxDepth,
		Index:    cfg.Output.Index,
		Emitter:  emit,
	}, logger.ComponentLogger("check"))
	if _, err := gen.Run(ctx, tmp); err != nil {
		return nil, err
	}
	return markdown.CompareDirectories(tmp, cfg.Output.Path)
}
