package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/wtu/cmd/wtu/commands"
	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/logger"
)

var rootCmd = &cobra.Command{
	Use:   "wtu",
	Short: "wtu - Web-table annotation",
	Long: `wtu - Annotate web tables with knowledge-base entities and properties.

wtu reads table records, normalizes cell literals, links cells to entities,
matches row literals against entity properties and writes the annotated
tables back out.

Available commands:
  annotate - Run the annotation pipeline over table records
  index    - Import knowledge-base indexes into the database
  am       - Manage wtu configuration ("I am")
  db       - Inspect recorded runs
  version  - Show build information

Examples:
  wtu annotate < tables.jsonl > annotated.jsonl
  wtu index import mentions mentions.tsv
  wtu am show
  wtu db stats`,
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
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringVarP(&commands.ConfigPath, "config", "c", "", "Configuration file (skips the config cascade)")

	rootCmd.AddCommand(commands.AnnotateCmd)
	rootCmd.AddCommand(commands.IndexCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", pterm.Red("Error:"), err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "  %s %s\n", pterm.Gray("hint:"), hint)
		}
		os.Exit(1)
	}
}
