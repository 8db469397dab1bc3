package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/wtu/am"
	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/sym"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " Manage wtu configuration",
	Long: sym.AM + ` am: manage wtu configuration

Display, validate and create the wtu configuration.

Configuration sources (in order of precedence):
1. --config <file> (replaces 2-5, defaults still apply)
2. Environment variables (WTU_* prefix)
3. Project config (./am.toml or ./wtu.toml, searched upwards)
4. User config (~/.wtu/am.toml)
5. System config (/etc/wtu/am.toml)
6. Default values

Examples:
  wtu am show                     # Show current configuration
  wtu am show --format json       # Show configuration in JSON format
  wtu am validate                 # Validate current configuration
  wtu am init                     # Write the defaults to ./am.toml
  wtu am where                    # List the config files that were checked`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective wtu configuration from all sources",
	Args:  cobra.NoArgs,
	RunE:  runAmShow,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate task names, index backends, thresholds and worker settings",
	Args:  cobra.NoArgs,
	RunE:  runAmValidate,
}

var amInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the defaults",
	Long: `Write the default configuration to path (./am.toml when omitted).

An existing file is kept as <path>.back1 before it is replaced, and only
with --force.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAmInit,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long:  "List the configuration files in order of precedence, lowest first, and whether each exists",
	Args:  cobra.NoArgs,
	RunE:  runAmWhere,
}

var (
	configFormat string
	initForce    bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json")
	amInitCmd.Flags().BoolVar(&initForce, "force", false, "Replace an existing file")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amInitCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch configFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "toml":
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# wtu configuration\n%s", string(data))

	default:
		return errors.WithHint(errors.Newf("unsupported format: %s", configFormat),
			"supported formats: toml, json")
	}

	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	fmt.Fprintln(cmd.OutOrStdout(), pterm.LightGreen("✓ Configuration is valid"))
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := "am.toml"
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return errors.WithHint(errors.Newf("%s already exists", path),
			"use --force to replace it (the old file is kept as .back1)")
	}

	if err := am.SaveToFile(am.Defaults(), path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", pterm.LightGreen("✓ Created:"), pterm.White(path))
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if ConfigPath != "" {
		fmt.Fprintf(out, "%s %s (--config)\n", pterm.LightGreen("✓"), ConfigPath)
		return nil
	}

	for _, path := range am.ConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(out, "%s %s\n", pterm.LightGreen("✓"), path)
		} else {
			fmt.Fprintf(out, "%s %s\n", pterm.Gray("✗"), pterm.Gray(path))
		}
	}
	fmt.Fprintf(out, "%s WTU_* environment variables\n", pterm.Gray("+"))
	return nil
}
