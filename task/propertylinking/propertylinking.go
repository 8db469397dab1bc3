// Package propertylinking implements the PropertyLinking task, which folds
// the per-cell literal-linking evidence of each column into a single column
// annotation naming the property the column most likely holds.
package propertylinking

import (
	"sort"

	"go.uber.org/zap"

	"github.com/teranos/wtu/logger"
	"github.com/teranos/wtu/table"
)

// DefaultMinSupport is the number of supporting cells a property needs.
const DefaultMinSupport = 1

// Options configures the task.
type Options struct {
	Source     string
	MinSupport int
	Logger     *zap.SugaredLogger
}

// Task is the PropertyLinking task.
type Task struct {
	source     string
	minSupport int
	logger     *zap.SugaredLogger
}

// New creates the task.
func New(opts Options) *Task {
	minSupport := opts.MinSupport
	if minSupport <= 0 {
		minSupport = DefaultMinSupport
	}
	return &Task{
		source:     opts.Source,
		minSupport: minSupport,
		logger:     logger.OrNop(opts.Logger).Named("propertylinking"),
	}
}

// Name returns the task name.
func (t *Task) Name() string { return table.TaskPropertyLinking }

// Support counts, per property URI, the data cells of a column holding at
// least one literal-linking match whose entity reference resolves.
type Support struct {
	PropertyURI string
	Cells       int
}

var llFilter = table.Filter{Task: table.TaskLiteralLinking, Type: table.TypeProperty}

// ColumnSupport returns the support of every property matched in col, best
// first. Ties go to the lexicographically smaller URI. Matches with
// dangling entity references are logged and not counted.
func (t *Task) ColumnSupport(col table.Column) (supports []Support, cells int) {
	counts := make(map[string]int)
	for _, cell := range col.Cells(table.NotHeader(), table.NonEmpty()) {
		cells++
		seen := make(map[string]bool)
		for _, a := range cell.FindAnnotations(llFilter) {
			pm, ok := a.Body.(*table.PropertyMatch)
			if !ok || pm.PropertyURI == "" || seen[pm.PropertyURI] {
				continue
			}
			if ref, ok := pm.References[table.RefEntityLinking]; ok {
				if _, err := cell.Table().ResolveString(ref); err != nil {
					t.logger.Warnw("Skipping match with dangling reference",
						logger.FieldCol, cell.Col,
						logger.FieldRow, cell.Row,
						logger.FieldLocator, ref,
						logger.FieldError, err,
					)
					continue
				}
			}
			seen[pm.PropertyURI] = true
			counts[pm.PropertyURI]++
		}
	}

	for uri, n := range counts {
		supports = append(supports, Support{PropertyURI: uri, Cells: n})
	}
	sort.Slice(supports, func(i, j int) bool {
		if supports[i].Cells != supports[j].Cells {
			return supports[i].Cells > supports[j].Cells
		}
		return supports[i].PropertyURI < supports[j].PropertyURI
	})
	return supports, cells
}

// Run annotates every column whose best property reaches the minimum
// support.
func (t *Task) Run(tbl *table.Table) (bool, error) {
	linked := 0
	for _, col := range tbl.Columns() {
		supports, cells := t.ColumnSupport(col)
		if len(supports) == 0 || supports[0].Cells < t.minSupport {
			continue
		}
		best := supports[0]
		col.Annotate(table.Annotation{
			Source: t.source,
			Task:   table.TaskPropertyLinking,
			Type:   table.TypeProperty,
			Body: &table.ColumnProperty{
				PropertyURI: best.PropertyURI,
				Support:     best.Cells,
				Cells:       cells,
				Score:       float64(best.Cells) / float64(cells),
			},
		})
		linked++
	}

	t.logger.Debugw("Linked column properties",
		logger.FieldCount, linked,
	)
	return true, nil
}
