package pulse

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/record"
	"github.com/teranos/wtu/table"
	"github.com/teranos/wtu/task"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// runnerFunc adapts a function to Runner.
type runnerFunc func(*table.Table) task.Result

func (f runnerFunc) Run(t *table.Table) task.Result { return f(t) }

// byContent decides the outcome from the first cell: "abort", "fail" and
// "panic" do what they say, anything else is annotated. Lower row counts
// sleep longer so that later records tend to finish first.
func byContent(t *table.Table) task.Result {
	switch t.Content(0, 0) {
	case "abort":
		return task.Result{Status: task.StatusAborted, Task: "Gate"}
	case "fail":
		return task.Result{Status: task.StatusFailed, Task: "Broken", Err: errors.New("boom")}
	case "panic":
		panic("task exploded")
	}
	time.Sleep(time.Duration(10-t.NumRows()) * time.Millisecond)
	t.Annotate(table.TableRegion(), table.Annotation{Source: "test", Task: "Stub"})
	return task.Result{Status: task.StatusAnnotated}
}

func tables(t *testing.T, firstCells ...string) []*table.Table {
	t.Helper()
	out := make([]*table.Table, len(firstCells))
	for i, c := range firstCells {
		col := []string{c}
		for j := 0; j < i%5; j++ {
			col = append(col, "x")
		}
		tbl, err := table.New([][]string{col})
		require.NoError(t, err)
		out[i] = tbl
	}
	return out
}

func collect(t *testing.T, p *Pool, src Source) ([]Result, error) {
	t.Helper()
	var results []Result
	err := p.Run(context.Background(), src, func(r Result) error {
		results = append(results, r)
		return nil
	})
	return results, err
}

func TestPoolEmitsInInputOrder(t *testing.T) {
	cells := make([]string, 40)
	for i := range cells {
		cells[i] = "ok"
	}
	p := NewPool(runnerFunc(byContent), Config{Workers: 8}, zaptest.NewLogger(t).Sugar())

	results, err := collect(t, p, FromTables(tables(t, cells...)...))
	require.NoError(t, err)
	require.Len(t, results, 40)
	for i, r := range results {
		assert.Equal(t, i, r.Ordinal)
		assert.Equal(t, task.StatusAnnotated, r.Status)
	}
}

func TestPoolReportsOutcomes(t *testing.T) {
	p := NewPool(runnerFunc(byContent), Config{Workers: 3}, nil)

	results, err := collect(t, p, FromTables(tables(t, "ok", "abort", "fail", "panic", "ok")...))
	require.NoError(t, err, "record failures do not stop the batch")
	require.Len(t, results, 5)

	assert.Equal(t, task.StatusAnnotated, results[0].Status)
	assert.Equal(t, task.StatusAborted, results[1].Status)
	assert.Equal(t, "Gate", results[1].Task)
	assert.Equal(t, task.StatusFailed, results[2].Status)
	assert.Equal(t, task.StatusFailed, results[3].Status)
	assert.Contains(t, results[3].Err.Error(), "task exploded")
	assert.Equal(t, task.StatusAnnotated, results[4].Status)
}

func TestPoolMaxFailures(t *testing.T) {
	p := NewPool(runnerFunc(byContent), Config{Workers: 2, MaxFailures: 1}, nil)

	results, err := collect(t, p, FromTables(tables(t, "fail", "ok", "fail", "ok", "ok", "ok")...))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooManyFailures))
	assert.Len(t, results, 3, "the batch stops right after the failure that crossed the limit")
}

func TestPoolStopsOnEmitError(t *testing.T) {
	p := NewPool(runnerFunc(byContent), Config{Workers: 2}, nil)

	emitted := 0
	err := p.Run(context.Background(), FromTables(tables(t, "ok", "ok", "ok", "ok")...), func(Result) error {
		emitted++
		if emitted == 2 {
			return errors.New("broken pipe")
		}
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
	assert.Equal(t, 2, emitted)
}

func TestPoolSourceError(t *testing.T) {
	p := NewPool(runnerFunc(byContent), Config{Workers: 2}, nil)

	calls := 0
	src := SourceFunc(func() (Job, error) {
		calls++
		if calls > 2 {
			return Job{}, errors.New("read /dev/stdin: input/output error")
		}
		tbl, err := table.New([][]string{{"ok"}})
		require.NoError(t, err)
		return Job{Ordinal: calls - 1, Table: tbl}, nil
	})

	_, err := collect(t, p, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read records")
}

func TestPoolContextCancel(t *testing.T) {
	var processed atomic.Int32
	slow := runnerFunc(func(*table.Table) task.Result {
		processed.Add(1)
		time.Sleep(5 * time.Millisecond)
		return task.Result{Status: task.StatusAnnotated}
	})
	p := NewPool(slow, Config{Workers: 2}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	endless := SourceFunc(func() (Job, error) {
		tbl, _ := table.New([][]string{{"ok"}})
		return Job{Table: tbl}, nil
	})

	err := p.Run(ctx, endless, func(r Result) error {
		if processed.Load() >= 5 {
			cancel()
		}
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPoolWithRecordReader(t *testing.T) {
	input := strings.Join([]string{
		`{"relation": [["ok"]]}`,
		`not json`,
		`{"relation": [["abort"]]}`,
	}, "\n")
	p := NewPool(runnerFunc(byContent), Config{Workers: 2}, nil)

	results, err := collect(t, p, FromReader(record.NewReader(strings.NewReader(input))))
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, task.StatusAnnotated, results[0].Status)
	assert.Equal(t, task.StatusMalformed, results[1].Status)
	assert.Equal(t, 1, results[1].Ordinal)
	assert.True(t, errors.IsMalformedRecord(results[1].Err))
	assert.Nil(t, results[1].Table)
	assert.Equal(t, task.StatusAborted, results[2].Status)
}

func TestPoolDefaultWorkers(t *testing.T) {
	p := NewPool(runnerFunc(byContent), Config{}, nil)
	assert.GreaterOrEqual(t, p.Workers(), 1)
}

func TestFromTablesEOF(t *testing.T) {
	src := FromTables()
	_, err := src.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCalculateSafeWorkerCount(t *testing.T) {
	assert.Equal(t, 1, calculateSafeWorkerCount(0.5))
	assert.Equal(t, 1, calculateSafeWorkerCount(1.1))
	assert.Equal(t, 4, calculateSafeWorkerCount(2))
	assert.Equal(t, 60, calculateSafeWorkerCount(16))
}

func TestCheckMemoryPressure(t *testing.T) {
	orig := getMemoryStats
	t.Cleanup(func() { getMemoryStats = orig })

	const gb = 1024 * 1024 * 1024
	getMemoryStats = func() (uint64, uint64, error) { return 8 * gb, 2 * gb, nil }

	assert.Empty(t, checkMemoryPressure(4))
	assert.Contains(t, checkMemoryPressure(5), "exceeds recommended (4)")

	getMemoryStats = func() (uint64, uint64, error) { return 0, 0, errors.New("no /proc/meminfo") }
	assert.Empty(t, checkMemoryPressure(1000))
}
