package commands

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/index"
	"github.com/teranos/wtu/logger"
	"github.com/teranos/wtu/sym"
)

// IndexCmd represents the index command
var IndexCmd = &cobra.Command{
	Use:   "index",
	Short: sym.IX + " Manage knowledge-base indexes",
	Long: sym.IX + ` index: manage knowledge-base indexes

Load delimited index files into the SQLite database so tasks can use the
sqlite backend instead of reading the files on every run.

File layouts (one row per line, tab-separated unless --delimiter is given):
  mentions     mention, entity_uri, frequency
  properties   entity_uri, property_uri, literal_type, literal_value
  classes      label, class_uri

Examples:
  wtu index import mentions mentions.tsv
  wtu index import properties properties.csv --delimiter ,
  wtu index import classes classes.tsv`,
}

type importFunc func(ctx context.Context, db *sql.DB, path string, delim rune, log *zap.SugaredLogger) (index.ImportStats, error)

var importers = map[string]importFunc{
	"mentions":   index.ImportMentions,
	"properties": index.ImportProperties,
	"classes":    index.ImportClasses,
}

var indexImportCmd = &cobra.Command{
	Use:       "import <mentions|properties|classes> <file>",
	Short:     "Import an index file into the database",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"mentions", "properties", "classes"},
	RunE:      runIndexImport,
}

var importDelimiter string

func init() {
	indexImportCmd.Flags().StringVarP(&importDelimiter, "delimiter", "d", "\t", "Field delimiter (a single character)")

	IndexCmd.AddCommand(indexImportCmd)
}

func runIndexImport(cmd *cobra.Command, args []string) error {
	kind, path := args[0], args[1]
	importer, ok := importers[kind]
	if !ok {
		kinds := make([]string, 0, len(importers))
		for k := range importers {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		return errors.WithHintf(errors.Newf("unknown index %q", kind), "choose one of %v", kinds)
	}

	delim, err := parseDelimiter(importDelimiter)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openDatabase(cfg.GetDatabasePath())
	if err != nil {
		return err
	}
	defer database.Close()

	stats, err := importer(cmd.Context(), database, path, delim, logger.Logger.Named("index"))
	if err != nil {
		return errors.Wrapf(err, "import %s", kind)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s rows from %s into %s\n",
		pterm.LightGreen("✓ Imported:"), pterm.White(stats.Rows), path, pterm.Yellow(cfg.GetDatabasePath()))
	if stats.Skipped > 0 {
		fmt.Fprintf(out, "  %s %d rows\n", pterm.Gray("→ skipped"), stats.Skipped)
	}
	return nil
}

func parseDelimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, errors.Newf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
