// Package literallinking implements the LiteralLinking task. For every
// entity linked in a row, the entity's literal properties are compared with
// the other cells of the row; each comparison that passes its threshold is
// attached to the target cell as a property match referencing the entity
// link and, for typed comparisons, the normalization it used.
package literallinking

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/index"
	"github.com/teranos/wtu/logger"
	"github.com/teranos/wtu/table"
)

// Default thresholds.
const (
	DefaultNumericThreshold = 0.5
	DefaultStringThreshold  = 0.5
)

// Options configures the task. Nil thresholds take the defaults; an
// explicit 0 keeps every comparison.
type Options struct {
	Source           string
	Index            index.PropertyIndex
	NumericThreshold *float64
	StringThreshold  *float64
	Logger           *zap.SugaredLogger
}

// Task is the LiteralLinking task.
type Task struct {
	source           string
	index            index.PropertyIndex
	numericThreshold float64
	stringThreshold  float64
	logger           *zap.SugaredLogger
}

// New creates the task. A missing index is ErrBackendUnavailable.
func New(opts Options) (*Task, error) {
	if opts.Index == nil {
		return nil, errors.WrapBackendUnavailable(errors.New("no property index"), "literal linking")
	}
	t := &Task{
		source:           opts.Source,
		index:            opts.Index,
		numericThreshold: DefaultNumericThreshold,
		stringThreshold:  DefaultStringThreshold,
		logger:           logger.OrNop(opts.Logger).Named("literallinking"),
	}
	if opts.NumericThreshold != nil {
		t.numericThreshold = *opts.NumericThreshold
	}
	if opts.StringThreshold != nil {
		t.stringThreshold = *opts.StringThreshold
	}
	return t, nil
}

// Name returns the task name.
func (t *Task) Name() string { return table.TaskLiteralLinking }

var (
	elFilter = table.Filter{Task: table.TaskEntityLinking, Type: table.TypeResource}
	lnFilter = table.Filter{Task: table.TaskLiteralNormalization}
)

// Run matches the properties of every linked entity against its row.
// Index failures fail the table.
func (t *Task) Run(tbl *table.Table) (bool, error) {
	matched := 0
	for _, row := range tbl.Rows(table.DataRows()) {
		cells := row.Cells()
		for _, source := range cells {
			for _, el := range source.FindAnnotations(elFilter) {
				res, ok := el.Body.(*table.Resource)
				if !ok || res.ResourceURI == "" {
					continue
				}
				props, err := t.index.Properties(res.ResourceURI)
				if err != nil {
					return false, errors.Wrapf(err, "properties of %s", res.ResourceURI)
				}
				if len(props) == 0 {
					continue
				}
				elRef := source.Locator(el.Index).String()
				for _, target := range cells {
					if target.Col == source.Col || target.Content() == "" {
						continue
					}
					matched += t.matchCell(target, elRef, props)
				}
			}
		}
	}

	t.logger.Debugw("Linked literals",
		logger.FieldCount, matched,
	)
	return true, nil
}

// matchCell compares every property with one target cell and annotates the
// cell with each kept match.
func (t *Task) matchCell(target table.Cell, elRef string, props []index.Property) int {
	readings := target.FindAnnotations(lnFilter)
	n := 0
	for _, p := range props {
		numeric, unit, date := families(p.LiteralType)
		var cands []candidate

		if numeric || unit {
			if v, err := strconv.ParseFloat(strings.TrimSpace(p.LiteralValue), 64); err == nil {
				if numeric {
					cands = append(cands, matchNumeric(v, readings, t.numericThreshold)...)
				}
				if unit {
					cands = append(cands, matchValueAndUnit(v, readings, t.numericThreshold)...)
				}
			}
		}
		if date {
			cands = append(cands, matchDate(p.LiteralValue, readings)...)
		}
		cands = append(cands, matchString(target.Content(), p.LiteralValue, t.stringThreshold)...)

		for _, c := range cands {
			refs := map[string]string{table.RefEntityLinking: elRef}
			if c.lnIndex >= 0 {
				refs[table.RefLiteralNormalization] = target.Locator(c.lnIndex).String()
			}
			target.Annotate(table.Annotation{
				Source: t.source,
				Task:   table.TaskLiteralLinking,
				Type:   table.TypeProperty,
				Body: &table.PropertyMatch{
					PropertyURI:    p.PropertyURI,
					References:     refs,
					Family:         c.family,
					Transformation: c.transformation,
					Metric:         c.metric,
					Similarity:     c.similarity,
					PropertyValue:  p.LiteralValue,
					LiteralType:    p.LiteralType,
				},
			})
			n++
		}
	}
	return n
}
