package commands

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/store"
	"github.com/teranos/wtu/sym"
	"github.com/teranos/wtu/task"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: sym.DB + " Inspect the record store",
	Long: sym.DB + ` db: inspect the record store

Runs started with 'wtu annotate --store' keep every record's outcome and the
annotated tables themselves.

Examples:
  wtu db stats                    # Statistics of the most recent run
  wtu db stats <run-id>           # Statistics of a specific run
  wtu db runs --limit 5           # List the last five runs
  wtu db record <run-id> 12       # Print the annotated record with ordinal 12`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats [run-id]",
	Short: "Show record statistics of a run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDbStats,
}

var dbRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runDbRuns,
}

var dbRecordCmd = &cobra.Command{
	Use:   "record <run-id> <ordinal>",
	Short: "Print a stored annotated record",
	Args:  cobra.ExactArgs(2),
	RunE:  runDbRecord,
}

var runsLimitFlag int

func init() {
	dbRunsCmd.Flags().IntVar(&runsLimitFlag, "limit", 20, "Number of runs to show")

	DbCmd.AddCommand(dbStatsCmd)
	DbCmd.AddCommand(dbRunsCmd)
	DbCmd.AddCommand(dbRecordCmd)
}

func openRecordStore() (*store.RecordStore, func() error, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, "", err
	}
	path := cfg.GetDatabasePath()
	database, err := openDatabase(path)
	if err != nil {
		return nil, nil, "", err
	}
	return store.NewRecordStore(database), database.Close, path, nil
}

func runDbStats(cmd *cobra.Command, args []string) error {
	records, closeDB, path, err := openRecordStore()
	if err != nil {
		return err
	}
	defer closeDB()

	var runID string
	if len(args) == 1 {
		runID = args[0]
	}
	stats, err := records.Stats(cmd.Context(), runID)
	if err != nil {
		if errors.IsNotFoundError(err) && runID == "" {
			return errors.WithHint(err, "start one with: wtu annotate --store")
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Record Store Statistics\n", sym.DB)
	fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	fmt.Fprintf(out, "Database Path:  %s\n", path)
	fmt.Fprintf(out, "Run:            %s\n", stats.ID)
	fmt.Fprintf(out, "Tasks:          %s\n", strings.Join(stats.Tasks, " → "))
	fmt.Fprintf(out, "Started:        %s\n", stats.StartedAt.Local().Format(time.DateTime))
	if stats.FinishedAt != nil {
		fmt.Fprintf(out, "Finished:       %s (%s)\n",
			stats.FinishedAt.Local().Format(time.DateTime),
			stats.FinishedAt.Sub(stats.StartedAt).Round(time.Millisecond))
	} else {
		fmt.Fprintf(out, "Finished:       %s\n", pterm.Yellow("not finished"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Records:        %d\n", stats.Records)
	printStatusCounts(out, stats.ByStatus)
	fmt.Fprintf(out, "Annotations:    %d\n", stats.Annotations)
	return nil
}

// printStatusCounts prints one line per status in a fixed order.
func printStatusCounts(out io.Writer, byStatus map[task.Status]int) {
	statuses := make([]task.Status, 0, len(byStatus))
	for s := range byStatus {
		statuses = append(statuses, s)
	}
	order := map[task.Status]int{
		task.StatusAnnotated: 0,
		task.StatusAborted:   1,
		task.StatusFailed:    2,
		task.StatusMalformed: 3,
	}
	sort.Slice(statuses, func(i, j int) bool { return order[statuses[i]] < order[statuses[j]] })

	for _, s := range statuses {
		fmt.Fprintf(out, "  %s %d\n", colorStatus(s, fmt.Sprintf("%-12s", s)), byStatus[s])
	}
}

func colorStatus(s task.Status, label string) string {
	switch s {
	case task.StatusAnnotated:
		return pterm.LightGreen(label)
	case task.StatusAborted:
		return pterm.Yellow(label)
	case task.StatusFailed:
		return pterm.Red(label)
	default:
		return pterm.Gray(label)
	}
}

func runDbRuns(cmd *cobra.Command, args []string) error {
	records, closeDB, _, err := openRecordStore()
	if err != nil {
		return err
	}
	defer closeDB()

	runs, err := records.Runs(cmd.Context(), runsLimitFlag)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "  No runs recorded yet")
		return nil
	}
	for _, run := range runs {
		state := pterm.Yellow("running")
		if run.FinishedAt != nil {
			state = pterm.LightGreen("finished")
		}
		fmt.Fprintf(out, "  %s  %s  %s  %s\n",
			pterm.LightCyan(run.ID),
			run.StartedAt.Local().Format(time.DateTime),
			state,
			pterm.Gray(strings.Join(run.Tasks, ",")),
		)
	}
	return nil
}

func runDbRecord(cmd *cobra.Command, args []string) error {
	ordinal, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.Newf("ordinal must be an integer, got %q", args[1])
	}

	records, closeDB, _, err := openRecordStore()
	if err != nil {
		return err
	}
	defer closeDB()

	data, err := records.Record(cmd.Context(), args[0], ordinal)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
