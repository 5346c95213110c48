package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/RealEstateCore/DTDL2MD/config"
	"github.com/RealEstateCore/DTDL2MD/display"
	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/RealEstateCore/DTDL2MD/logger"
	"github.com/RealEstateCore/DTDL2MD/markdown"
	"github.com/RealEstateCore/DTDL2MD/progress"
	"github.com/RealEstateCore/DTDL2MD/watch"
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write markdown documentation for an ontology",
	Long: `Load a DTDL ontology and write one markdown document per interface.

Inputs may be model files, directories (searched recursively) or remote
sources understood by go-getter: git repositories, http archives and
github.com/org/repo shorthand.

Every document is rendered before anything is written. A schema cycle, a
missing reference or a path collision aborts the run and leaves the output
directory untouched.

Examples:
  dtdl2md generate -i ontology/ -o docs/
  dtdl2md generate -i a.json -i b.json --index
  dtdl2md generate -i github.com/RealEstateCore/rec -o docs/ --clean
  dtdl2md generate --watch`,
	RunE: runGenerate,
}

func init() {
	addInputFlags(GenerateCmd.Flags())
	GenerateCmd.Flags().StringP("output", "o", "", "Output directory (default: docs)")
	GenerateCmd.Flags().Bool("clean", false, "Remove the output directory before writing")
	GenerateCmd.Flags().Bool("index", false, "Write README.md listing every interface")
	GenerateCmd.Flags().Int("workers", 0, "Concurrent render and write workers (default: 4)")
	GenerateCmd.Flags().Int("max-depth", 0, "Maximum inheritance depth (default: 256)")
	GenerateCmd.Flags().BoolP("watch", "w", false, "Regenerate when model files change")
	GenerateCmd.Flags().Int("debounce", 0, "Watch debounce in milliseconds (default: 500)")
	GenerateCmd.Flags().Bool("json", false, "Print the run result as JSON")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	watchMode, _ := cmd.Flags().GetBool("watch")
	jsonResult := display.ShouldOutputJSON(cmd)
	emit := newEmitter(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, paths, err := generateOnce(ctx, cfg, emit)
	if !watchMode {
		if err != nil {
			return err
		}
		return reportResult(cmd, result, jsonResult)
	}

	if err != nil {
		logger.Errorw("initial generation failed", logger.FieldError, err)
	} else if err := reportResult(cmd, result, jsonResult); err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.WithHint(errors.New("no local inputs to watch"), "watch mode needs at least one local file or directory input")
	}

	w, err := watch.New(paths, cfg.Watch.Debounce(), cfg.Watch.MinInterval(), logger.ComponentLogger("watch"))
	if err != nil {
		return err
	}
	w.Extensions = cfg.Input.Extensions
	if !logger.JSONOutput {
		pterm.Info.Printfln("Watching %d director(ies) for changes, press Ctrl+C to stop", w.Dirs())
	}

	return w.Run(ctx, func(ctx context.Context) error {
		result, _, err := generateOnce(ctx, cfg, emit)
		if err != nil {
			return err
		}
		return reportResult(cmd, result, jsonResult)
	})
}

// generateOnce runs a full load, render and write pass and returns the local
// input paths that were read.
func generateOnce(ctx context.Context, cfg *config.Config, emit progress.Emitter) (*markdown.Result, []string, error) {
	start := time.Now()
	l, err := loadOntology(ctx, cfg, emit)
	defer l.Cleanup()
	paths := l.watchable()
	if err != nil {
		return nil, paths, err
	}

	gen := markdown.NewGenerator(l.ont, markdown.Options{
		Workers:  cfg.Generate.Workers,
		MaxDepth: cfg.Generate.MaxDepth,
		Clean:    cfg.Output.Clean,
		Inputs:   l.local,
		Index:    cfg.Output.Index,
		Emitter:  emit,
	}, logger.ComponentLogger("generate"))

	result, err := gen.Run(ctx, cfg.Output.Path)
	if err != nil {
		return nil, paths, errors.Wrapf(err, "generate into %s", cfg.Output.Path)
	}

	summary := map[string]interface{}{
		"run_id":      result.RunID,
		"documents":   result.Documents,
		"files":       len(l.files),
		"output":      result.Output,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	for k, n := range result.Counts {
		summary[k] = n
	}
	emit.EmitComplete(summary)
	return result, paths, nil
}

func reportResult(cmd *cobra.Command, result *markdown.Result, asJSON bool) error {
	if asJSON {
		return display.OutputJSON(cmd.OutOrStdout(), result)
	}
	if logger.JSONOutput {
		return nil
	}
	pterm.Success.Printfln("Wrote %d documents to %s in %s",
		result.Documents, result.Output, result.Duration.Round(time.Millisecond))
	return nil
}
