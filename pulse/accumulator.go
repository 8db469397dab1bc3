package pulse

import (
	"sort"
	"time"

	"github.com/teranos/wtu/task"
)

// Summary is the fold of a batch's results.
type Summary struct {
	Records   int
	Annotated int
	Aborted   int
	Failed    int
	Malformed int
	// Annotations counts the annotations of emitted tables per task.
	Annotations map[string]int
	// AbortedBy and FailedBy count the records each task stopped.
	AbortedBy map[string]int
	FailedBy  map[string]int
	// Elapsed sums pipeline time over all records.
	Elapsed time.Duration
}

// Tasks returns the task names present in Annotations, sorted.
func (s Summary) Tasks() []string {
	names := make([]string, 0, len(s.Annotations))
	for name := range s.Annotations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Accumulator folds results into a Summary. Not safe for concurrent use;
// feed it from the emit callback of Pool.Run.
type Accumulator struct {
	s Summary
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{s: Summary{
		Annotations: make(map[string]int),
		AbortedBy:   make(map[string]int),
		FailedBy:    make(map[string]int),
	}}
}

// Add folds one result.
func (a *Accumulator) Add(r Result) {
	a.s.Records++
	a.s.Elapsed += r.Duration

	switch r.Status {
	case task.StatusAnnotated:
		a.s.Annotated++
		if r.Table == nil {
			return
		}
		for _, region := range r.Table.Store().Regions() {
			for _, anno := range r.Table.Annotations(region) {
				a.s.Annotations[anno.Task]++
			}
		}
	case task.StatusAborted:
		a.s.Aborted++
		a.s.AbortedBy[r.Task]++
	case task.StatusFailed:
		a.s.Failed++
		a.s.FailedBy[r.Task]++
	case task.StatusMalformed:
		a.s.Malformed++
	}
}

// Summary returns a copy of the current totals.
func (a *Accumulator) Summary() Summary {
	s := a.s
	s.Annotations = copyCounts(a.s.Annotations)
	s.AbortedBy = copyCounts(a.s.AbortedBy)
	s.FailedBy = copyCounts(a.s.FailedBy)
	return s
}

// Fold summarizes results in one call.
func Fold(results []Result) Summary {
	a := NewAccumulator()
	for _, r := range results {
		a.Add(r)
	}
	return a.Summary()
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
