package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/RealEstateCore/DTDL2MD/cmd/dtdl2md/commands"
	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/RealEstateCore/DTDL2MD/logger"
)

var rootCmd = &cobra.Command{
	Use:   "dtdl2md",
	Short: "Generate markdown documentation from DTDL ontologies",
	Long: `dtdl2md - Markdown documentation for DTDL ontologies.

Every interface becomes one markdown document, placed in a directory tree that
follows its longest inheritance chain. Documents link to their parents,
children, relationship targets and the relationships that target them.

Available commands:
  generate - Write documentation for an ontology
  check    - Verify documentation on disk is up to date
  show     - Show the resolved view of one interface
  tree     - Print the placement tree
  config   - Show configuration and where it comes from
  version  - Show version information

Examples:
  dtdl2md generate -i ontology/ -o docs/      # Generate docs
  dtdl2md generate -i github.com/org/rec      # Generate from a remote ontology
  dtdl2md generate --watch                    # Regenerate on every change
  dtdl2md check -o docs/                      # Fail when docs are stale
  dtdl2md show "dtmi:org:example:Space;1"     # Inspect one interface`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: nearest dtdl2md.toml)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON to stderr")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.ShowCmd)
	rootCmd.AddCommand(commands.TreeCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
