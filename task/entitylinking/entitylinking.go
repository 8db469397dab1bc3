// Package entitylinking implements the EntityLinking task: each data cell's
// content is normalized into a mention, looked up in a mention index and
// the best-ranked entities are attached to the cell as resource annotations.
package entitylinking

import (
	"go.uber.org/zap"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/index"
	"github.com/teranos/wtu/logger"
	"github.com/teranos/wtu/table"
)

// DefaultTopN is the number of entities kept per cell.
const DefaultTopN = 3

// Options configures the task.
type Options struct {
	Source string
	Index  index.MentionIndex
	TopN   int
	// Fuzzy enables the similar-mention fallback for cells without exact hits.
	Fuzzy       bool
	FuzzyCutoff float64
	Logger      *zap.SugaredLogger
}

// Task is the EntityLinking task.
type Task struct {
	source      string
	index       index.MentionIndex
	topN        int
	fuzzy       bool
	fuzzyCutoff float64
	logger      *zap.SugaredLogger
}

// New creates the task. A missing index is ErrBackendUnavailable.
func New(opts Options) (*Task, error) {
	if opts.Index == nil {
		return nil, errors.WrapBackendUnavailable(errors.New("no mention index"), "entity linking")
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Task{
		source:      opts.Source,
		index:       opts.Index,
		topN:        topN,
		fuzzy:       opts.Fuzzy,
		fuzzyCutoff: opts.FuzzyCutoff,
		logger:      logger.OrNop(opts.Logger).Named("entitylinking"),
	}, nil
}

// Name returns the task name.
func (t *Task) Name() string { return table.TaskEntityLinking }

// Run links every non-empty data cell. Index failures fail the table.
func (t *Task) Run(tbl *table.Table) (bool, error) {
	linked, fuzzy := 0, 0
	for _, cell := range tbl.Cells(table.NotHeader(), table.NonEmpty()) {
		mention := index.NormalizeMention(cell.Content())
		if mention == "" {
			continue
		}

		cands, err := t.index.Lookup(mention)
		if err != nil {
			return false, errors.Wrapf(err, "lookup mention of cell %s", cell.Region())
		}
		if len(cands) == 0 && t.fuzzy {
			cands, err = t.index.Similar(mention, t.fuzzyCutoff)
			if err != nil {
				return false, errors.Wrapf(err, "fuzzy lookup of cell %s", cell.Region())
			}
			if len(cands) > 0 {
				fuzzy++
			}
		}

		ranked := Rank(cands, t.topN)
		for _, r := range ranked {
			cell.Annotate(table.Annotation{
				Source: t.source,
				Task:   table.TaskEntityLinking,
				Type:   table.TypeResource,
				Body: &table.Resource{
					ResourceURI:  r.EntityURI,
					Frequency:    r.Score,
					RawFrequency: r.Frequency,
					Mention:      mention,
					Fuzzy:        r.Fuzzy,
				},
			})
		}
		if len(ranked) > 0 {
			linked++
		}
	}

	t.logger.Debugw("Linked entities",
		logger.FieldCount, linked,
		"fuzzy", fuzzy,
	)
	return true, nil
}
