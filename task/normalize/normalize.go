// Package normalize implements the LiteralNormalization task: every
// non-empty data cell gets a plain annotation with its original content,
// followed by typed readings of it as a quantity, a date or a number.
//
// Quantity readings suppress date and number readings of the same cell and
// date readings suppress number readings, so "12 km" is not also read as a
// number. Ambiguous strings keep every reading of the winning kind.
package normalize

import (
	"go.uber.org/zap"

	"github.com/teranos/wtu/internal/util"
	"github.com/teranos/wtu/logger"
	"github.com/teranos/wtu/table"
)

// Options configures the task.
type Options struct {
	// Source labels every annotation the task writes.
	Source string
	Logger *zap.SugaredLogger
}

// Task is the LiteralNormalization task.
type Task struct {
	source string
	logger *zap.SugaredLogger
}

// New creates the task.
func New(opts Options) *Task {
	return &Task{
		source: opts.Source,
		logger: logger.OrNop(opts.Logger).Named("normalize"),
	}
}

// Name returns the task name.
func (t *Task) Name() string { return table.TaskLiteralNormalization }

// Run annotates every non-empty data cell. It never aborts the pipeline.
func (t *Task) Run(tbl *table.Table) (bool, error) {
	typed := 0
	for _, cell := range tbl.Cells(table.NotHeader(), table.NonEmpty()) {
		content := cell.Content()
		cell.Annotate(t.annotation(table.TypePlain, &table.Plain{Value: content}))

		typed += t.annotateTyped(cell, content)
	}

	t.logger.Debugw("Normalized literals",
		logger.FieldCount, typed,
	)
	return true, nil
}

func (t *Task) annotateTyped(cell table.Cell, content string) int {
	if ms := ParseQuantity(content); len(ms) > 0 {
		for _, m := range ms {
			cell.Annotate(t.annotation(table.TypeValueAndUnit, &table.ValueAndUnit{
				Value:           m.Value,
				ValueNormalized: m.ValueNormalized,
				UnitName:        m.Unit,
				DataType:        m.DataType,
				QuantityName:    m.Quantity,
			}))
		}
		return len(ms)
	}

	if ds := ParseDate(content); len(ds) > 0 {
		for _, d := range ds {
			body := &table.Date{Year: d.Year, Notation: d.Notation}
			if d.Month > 0 {
				body.Month = util.Ptr(d.Month)
			}
			if d.Day > 0 {
				body.DayOfMonth = util.Ptr(d.Day)
			}
			cell.Annotate(t.annotation(table.TypeDate, body))
		}
		return len(ds)
	}

	ns := ParseNumber(content)
	for _, n := range ns {
		cell.Annotate(t.annotation(table.TypeNumeric, &table.Numeric{
			Number:            n.Value,
			DecimalSeparator:  n.Decimal,
			GroupingSeparator: n.Grouping,
		}))
	}
	return len(ns)
}

func (t *Task) annotation(typ string, body table.Body) table.Annotation {
	return table.Annotation{
		Source: t.source,
		Task:   table.TaskLiteralNormalization,
		Type:   typ,
		Body:   body,
	}
}
