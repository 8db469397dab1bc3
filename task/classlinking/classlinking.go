// Package classlinking implements the ClassLinking task: the header cells of
// a table are looked up in a class index and hits are attached to the header
// cell as class annotations.
package classlinking

import (
	"go.uber.org/zap"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/index"
	"github.com/teranos/wtu/kb"
	"github.com/teranos/wtu/logger"
	"github.com/teranos/wtu/table"
)

// Options configures the task.
type Options struct {
	Source string
	Index  index.ClassIndex
	Logger *zap.SugaredLogger
}

// Task is the ClassLinking task.
type Task struct {
	source string
	index  index.ClassIndex
	logger *zap.SugaredLogger
}

// New creates the task. A missing index is ErrBackendUnavailable.
func New(opts Options) (*Task, error) {
	if opts.Index == nil {
		return nil, errors.WrapBackendUnavailable(errors.New("no class index"), "class linking")
	}
	return &Task{
		source: opts.Source,
		index:  opts.Index,
		logger: logger.OrNop(opts.Logger).Named("classlinking"),
	}, nil
}

// Name returns the task name.
func (t *Task) Name() string { return table.TaskClassLinking }

// Run links the header cells. Tables without a header row are left alone.
func (t *Task) Run(tbl *table.Table) (bool, error) {
	hr := tbl.HeaderRow()
	if hr == table.NoHeader {
		return true, nil
	}

	linked := 0
	for _, cell := range tbl.Row(hr).Cells(table.NonEmpty()) {
		uri, ok, err := t.index.Class(cell.Content())
		if err != nil {
			return false, errors.Wrapf(err, "class of header cell %s", cell.Region())
		}
		if !ok {
			continue
		}
		long := uri
		if u, err := kb.ParseURI(uri, index.ClassPrefix); err == nil {
			long = u.Long()
		}
		cell.Annotate(table.Annotation{
			Source: t.source,
			Task:   table.TaskClassLinking,
			Type:   table.TypeClass,
			Body:   &table.Class{ClassURI: long},
		})
		linked++
	}

	t.logger.Debugw("Linked header classes",
		logger.FieldCount, linked,
	)
	return true, nil
}
