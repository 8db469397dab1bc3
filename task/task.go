// Package task defines the task contract and the pipeline that runs a
// configured sequence of tasks over one table.
//
// A task returning false aborts the remaining tasks for that table; a task
// returning an error fails the table. Neither is retried. Tables are
// independent, so a Pipeline may be shared by concurrent callers as long as
// every call passes its own table.
package task

import (
	"time"

	"go.uber.org/zap"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/logger"
	"github.com/teranos/wtu/table"
)

// Task is one annotation step.
type Task interface {
	Name() string
	Run(t *table.Table) (bool, error)
}

// Status is the outcome of running a pipeline over one record.
type Status string

const (
	// StatusAnnotated tables completed every task and are emitted.
	StatusAnnotated Status = "annotated"
	// StatusAborted tables were stopped by a task returning false.
	StatusAborted Status = "aborted"
	// StatusFailed tables hit a task error.
	StatusFailed Status = "failed"
	// StatusMalformed records never became a table. Assigned by the driver.
	StatusMalformed Status = "malformed"
)

// Result describes one pipeline run.
type Result struct {
	Status Status
	// Task names the task that aborted or failed the table.
	Task     string
	Err      error
	Duration time.Duration
}

// Pipeline runs tasks in order.
type Pipeline struct {
	tasks  []Task
	logger *zap.SugaredLogger
}

// NewPipeline creates a pipeline over tasks.
func NewPipeline(log *zap.SugaredLogger, tasks ...Task) *Pipeline {
	return &Pipeline{
		tasks:  tasks,
		logger: logger.OrNop(log).Named("pipeline"),
	}
}

// Tasks returns the task names in execution order.
func (p *Pipeline) Tasks() []string {
	names := make([]string, len(p.tasks))
	for i, t := range p.tasks {
		names[i] = t.Name()
	}
	return names
}

// Run executes the tasks over tbl, stopping at the first abort or error.
// Annotations written by earlier tasks stay on tbl; callers drop tables
// that are not StatusAnnotated.
func (p *Pipeline) Run(tbl *table.Table) Result {
	start := time.Now()
	for _, t := range p.tasks {
		ok, err := t.Run(tbl)
		if err != nil {
			p.logger.Debugw("Task failed",
				logger.FieldTask, t.Name(),
				logger.FieldError, err,
			)
			return Result{
				Status:   StatusFailed,
				Task:     t.Name(),
				Err:      errors.Wrapf(err, "task %s", t.Name()),
				Duration: time.Since(start),
			}
		}
		if !ok {
			p.logger.Debugw("Task aborted table",
				logger.FieldTask, t.Name(),
			)
			return Result{Status: StatusAborted, Task: t.Name(), Duration: time.Since(start)}
		}
	}
	return Result{Status: StatusAnnotated, Duration: time.Since(start)}
}
