package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RealEstateCore/DTDL2MD/config"
	"github.com/RealEstateCore/DTDL2MD/display"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show dtdl2md configuration",
	Long: `Display the effective configuration and where it comes from.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (DTDL2MD_* prefix, e.g. DTDL2MD_OUTPUT_PATH)
3. Project config (dtdl2md.toml, searched from the working directory upwards)
4. Default values

Examples:
  dtdl2md config show                 # Show current configuration
  dtdl2md config show --format json   # Show configuration in JSON format
  dtdl2md config where                # Show which config file is used`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runConfigWhere,
}

func init() {
	configShowCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configWhereCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	if format != "json" {
		fmt.Fprintln(cmd.OutOrStdout(), "# dtdl2md configuration")
	}
	return display.Write(cmd.OutOrStdout(), format, cfg)
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	_, v, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintf(out, "  2. [PROJECT]  ./%s (searches up directories)\n", config.FileName)
	fmt.Fprintf(out, "  3. [ENV]      %s_* environment variables\n", config.EnvPrefix)
	fmt.Fprintln(out, "  4. [FLAGS]    Command line flags")
	fmt.Fprintln(out)
	if file := config.Where(v); file != "" {
		fmt.Fprintf(out, "Config file: %s\n", file)
	} else {
		fmt.Fprintln(out, "Config file: none (defaults only)")
	}
	return nil
}
