// Package pulse runs the annotation pipeline over a stream of table
// records with a bounded pool of workers.
//
// Records are independent units of work: each worker takes a whole record,
// runs every task on it and hands the result back. Results are emitted in
// input order regardless of which worker finished first.
package pulse

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/logger"
	"github.com/teranos/wtu/sym"
	"github.com/teranos/wtu/table"
	"github.com/teranos/wtu/task"
)

// ErrTooManyFailures stops a batch whose failed records exceed MaxFailures.
var ErrTooManyFailures = errors.New("too many failed records")

// Job is one record handed to the pool. Err carries a decode failure; such
// jobs have no table and are reported as malformed.
type Job struct {
	Ordinal int
	Table   *table.Table
	Err     error
}

// Source yields jobs until it returns io.EOF. Next is only called from a
// single goroutine.
type Source interface {
	Next() (Job, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (Job, error)

// Next calls f.
func (f SourceFunc) Next() (Job, error) { return f() }

// Runner processes one table. *task.Pipeline implements it.
type Runner interface {
	Run(t *table.Table) task.Result
}

// Result is the outcome of one job.
type Result struct {
	Ordinal int
	// Table is set for every job that decoded; only StatusAnnotated tables
	// are meant to be written out.
	Table *table.Table
	task.Result
}

// Config configures a Pool.
type Config struct {
	// Workers is the number of concurrent workers. 0 means one per CPU.
	Workers int
	// MaxFailures stops the batch once more records have failed. 0 never
	// stops.
	MaxFailures int
}

// pulseLogger adds opening and closing markers to the pool's log lines.
type pulseLogger struct {
	*zap.SugaredLogger
}

// Starting logs an opening (✿) event.
func (l pulseLogger) Starting(msg string, keysAndValues ...interface{}) {
	l.Debugw(sym.PulseOpen+" "+msg, keysAndValues...)
}

// Closing logs a closing (❀) event.
func (l pulseLogger) Closing(msg string, keysAndValues ...interface{}) {
	l.Infow(sym.PulseClose+" "+msg, keysAndValues...)
}

// Pool runs a Runner over jobs.
type Pool struct {
	runner      Runner
	workers     int
	maxFailures int
	logger      pulseLogger
}

// NewPool creates a pool.
func NewPool(runner Runner, cfg Config, log *zap.SugaredLogger) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{
		runner:      runner,
		workers:     workers,
		maxFailures: cfg.MaxFailures,
		logger:      pulseLogger{logger.OrNop(log).Named("pulse")},
	}
}

// Workers returns the effective worker count.
func (p *Pool) Workers() int { return p.workers }

// Run processes every job of src and calls emit with each result in input
// order. emit is called from one goroutine at a time. Run returns the
// first error of src or emit, ErrTooManyFailures, or ctx's error; records
// already emitted stay emitted.
func (p *Pool) Run(ctx context.Context, src Source, emit func(Result) error) error {
	if warning := checkMemoryPressure(p.workers); warning != "" {
		p.logger.Warnw("Memory pressure warning",
			"warning", warning,
			logger.FieldWorkers, p.workers,
		)
	}
	p.logger.Starting("Starting batch", logger.FieldWorkers, p.workers)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan sequenced, p.workers)
	results := make(chan sequenced, p.workers)

	g.Go(func() error {
		defer close(jobs)
		for seq := 0; ; seq++ {
			job, err := src.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return errors.Wrap(err, "read records")
			}
			select {
			case jobs <- sequenced{seq: seq, job: job}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for s := range jobs {
				s.result = p.process(s.job)
				select {
				case results <- s:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	emitted, failures := 0, 0
	g.Go(func() error {
		next := 0
		pending := make(map[int]Result)
		for s := range results {
			pending[s.seq] = s.result
			for {
				r, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++

				if r.Status == task.StatusFailed {
					failures++
					p.logger.Warnw("Record failed",
						logger.FieldRecord, r.Ordinal,
						logger.FieldTask, r.Task,
						logger.FieldError, r.Err,
					)
				}
				if err := emit(r); err != nil {
					return errors.Wrap(err, "emit result")
				}
				emitted++
				if p.maxFailures > 0 && failures > p.maxFailures {
					return errors.WithHintf(
						errors.Wrapf(ErrTooManyFailures, "%d failed records", failures),
						"raise pulse.max_failures (currently %d) or set it to 0", p.maxFailures,
					)
				}
			}
		}
		return nil
	})

	err := g.Wait()
	p.logger.Closing("Batch finished",
		logger.FieldCount, emitted,
		"failed", failures,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return err
}

type sequenced struct {
	seq    int
	job    Job
	result Result
}

// process runs one job. A panicking task fails its record, not the batch.
func (p *Pool) process(job Job) (res Result) {
	res = Result{Ordinal: job.Ordinal, Table: job.Table}
	if job.Err != nil || job.Table == nil {
		res.Status = task.StatusMalformed
		res.Err = job.Err
		if res.Err == nil {
			res.Err = errors.NewMalformedRecordError("record %d has no table", job.Ordinal)
		}
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			res.Status = task.StatusFailed
			res.Err = errors.Newf("panic: %s", fmt.Sprint(r))
		}
	}()
	res.Result = p.runner.Run(job.Table)
	return res
}
