package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/logger"
	"github.com/teranos/wtu/pulse"
	"github.com/teranos/wtu/record"
	"github.com/teranos/wtu/store"
	"github.com/teranos/wtu/sym"
	"github.com/teranos/wtu/task"
)

// AnnotateCmd represents the annotate command
var AnnotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: sym.Annotate + " Annotate web-table records",
	Long: sym.Annotate + ` annotate: run the annotation pipeline over table records

Reads one JSON table record per line, runs the configured tasks on each and
writes every annotated record, one per line. Aborted and failed records are
counted in the summary but not written. Malformed lines are skipped.

The run summary goes to stderr so stdout can be piped.

Examples:
  wtu annotate < tables.jsonl > annotated.jsonl
  wtu annotate --input tables.jsonl --workers 8
  wtu annotate --config am.toml --store        # keep outcomes for 'wtu db stats'`,
	Args: cobra.NoArgs,
	RunE: runAnnotate,
}

var (
	annotateWorkers int
	annotateInput   string
	annotateStore   bool
)

func init() {
	AnnotateCmd.Flags().IntVarP(&annotateWorkers, "workers", "w", 0, "Worker goroutines (overrides pulse.workers, 0 = one per CPU)")
	AnnotateCmd.Flags().StringVarP(&annotateInput, "input", "i", "", "Read records from a file instead of stdin")
	AnnotateCmd.Flags().BoolVar(&annotateStore, "store", false, "Record every outcome in the database")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Pulse.Workers = annotateWorkers
	}

	var database *sql.DB
	if annotateStore || task.NeedsDatabase(cfg) {
		database, err = openDatabase(cfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer database.Close()
	}

	pipeline, err := task.Build(cfg, task.Deps{DB: database, Logger: logger.Logger})
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if annotateInput != "" {
		f, err := os.Open(annotateInput)
		if err != nil {
			return errors.Wrapf(err, "open %s", annotateInput)
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		records *store.RecordStore
		run     *store.Run
	)
	if annotateStore {
		records = store.NewRecordStore(database)
		run, err = records.BeginRun(ctx, pipeline.Tasks())
		if err != nil {
			return err
		}
		logger.Logger.Infow("Recording run", logger.FieldRunID, run.ID)
	}

	out := record.NewWriter(cmd.OutOrStdout())
	acc := pulse.NewAccumulator()
	pool := pulse.NewPool(pipeline, pulse.Config{
		Workers:     cfg.Pulse.Workers,
		MaxFailures: cfg.Pulse.MaxFailures,
	}, logger.Logger)

	start := time.Now()
	runErr := pool.Run(ctx, pulse.FromReader(record.NewReader(in)), func(r pulse.Result) error {
		acc.Add(r)
		if r.Status == task.StatusMalformed {
			logger.Logger.Warnw("Skipping malformed record",
				logger.FieldRecord, r.Ordinal,
				logger.FieldError, r.Err,
			)
		}
		if records != nil {
			if err := records.Save(ctx, run.ID, r); err != nil {
				return err
			}
		}
		if r.Status != task.StatusAnnotated {
			return nil
		}
		return out.Write(r.Table)
	})
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = errors.Wrap(err, "failed to write records")
	}

	if records != nil {
		// the run context may be cancelled already
		if err := records.FinishRun(context.Background(), run.ID); err != nil && runErr == nil {
			runErr = err
		}
	}

	printRunSummary(cmd.ErrOrStderr(), acc.Summary(), pool.Workers(), time.Since(start), run)
	return runErr
}

// printRunSummary writes the outcome of a run for humans.
func printRunSummary(w io.Writer, s pulse.Summary, workers int, wall time.Duration, run *store.Run) {
	fmt.Fprintf(w, "\n%s Annotated %s of %d records in %s (%d workers)\n",
		sym.Pulse,
		pterm.LightGreen(s.Annotated),
		s.Records,
		wall.Round(time.Millisecond),
		workers,
	)
	if s.Aborted > 0 {
		fmt.Fprintf(w, "  %s %d\n", pterm.Yellow("aborted:  "), s.Aborted)
		for _, name := range sortedKeys(s.AbortedBy) {
			fmt.Fprintf(w, "    %s %s %d\n", pterm.Gray("by"), name, s.AbortedBy[name])
		}
	}
	if s.Failed > 0 {
		fmt.Fprintf(w, "  %s %d\n", pterm.Red("failed:   "), s.Failed)
		for _, name := range sortedKeys(s.FailedBy) {
			fmt.Fprintf(w, "    %s %s %d\n", pterm.Gray("in"), name, s.FailedBy[name])
		}
	}
	if s.Malformed > 0 {
		fmt.Fprintf(w, "  %s %d\n", pterm.Gray("malformed:"), s.Malformed)
	}

	for _, name := range s.Tasks() {
		fmt.Fprintf(w, "  %s %-22s %d annotations\n", sym.Task(name), name, s.Annotations[name])
	}
	if run != nil {
		fmt.Fprintf(w, "  %s %s\n", pterm.Gray("run:"), pterm.LightCyan(run.ID))
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
