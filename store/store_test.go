package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/wtu/errors"
	wtutesting "github.com/teranos/wtu/internal/testing"
	"github.com/teranos/wtu/pulse"
	"github.com/teranos/wtu/table"
	"github.com/teranos/wtu/task"
)

func annotated(t *testing.T, ordinal int) pulse.Result {
	t.Helper()
	tbl, err := table.New([][]string{{"Paris"}, {"2148000"}})
	require.NoError(t, err)
	tbl.Cell(0, 0).Annotate(table.Annotation{
		Source: "test", Task: table.TaskEntityLinking, Type: table.TypeResource,
		Body: &table.Resource{ResourceURI: "dbr:Paris", Frequency: 1},
	})
	tbl.Cell(1, 0).Annotate(table.Annotation{
		Source: "test", Task: table.TaskLiteralNormalization, Type: table.TypeNumeric,
		Body: &table.Numeric{Number: 2148000},
	})
	return pulse.Result{Ordinal: ordinal, Table: tbl, Result: task.Result{Status: task.StatusAnnotated}}
}

func TestRecordStore(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore(wtutesting.CreateMigratedTestDB(t))

	run, err := s.BeginRun(ctx, []string{"LiteralNormalization", "EntityLinking"})
	require.NoError(t, err)
	assert.Len(t, run.ID, 36)

	require.NoError(t, s.Save(ctx, run.ID, annotated(t, 0)))
	require.NoError(t, s.Save(ctx, run.ID, pulse.Result{Ordinal: 1,
		Result: task.Result{Status: task.StatusMalformed, Err: errors.NewMalformedRecordError("line 2: unexpected end of JSON input")}}))
	aborted := annotated(t, 2)
	aborted.Status = task.StatusAborted
	aborted.Task = "LanguageDetection"
	require.NoError(t, s.Save(ctx, run.ID, aborted))
	require.NoError(t, s.Save(ctx, run.ID, annotated(t, 3)))
	require.NoError(t, s.FinishRun(ctx, run.ID))

	t.Run("stats", func(t *testing.T) {
		stats, err := s.Stats(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.ID, stats.ID)
		assert.Equal(t, []string{"LiteralNormalization", "EntityLinking"}, stats.Tasks)
		assert.NotNil(t, stats.FinishedAt)
		assert.Equal(t, 4, stats.Records)
		assert.Equal(t, map[task.Status]int{
			task.StatusAnnotated: 2,
			task.StatusMalformed: 1,
			task.StatusAborted:   1,
		}, stats.ByStatus)
		assert.Equal(t, 4, stats.Annotations, "aborted tables keep no annotations")
	})

	t.Run("latest run", func(t *testing.T) {
		stats, err := s.Stats(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, run.ID, stats.ID)
	})

	t.Run("record", func(t *testing.T) {
		data, err := s.Record(ctx, run.ID, 0)
		require.NoError(t, err)
		tbl, err := table.Decode(data)
		require.NoError(t, err)
		assert.Len(t, tbl.Cell(0, 0).Annotations(), 1)

		_, err = s.Record(ctx, run.ID, 2)
		assert.True(t, errors.IsNotFoundError(err), "aborted records are not kept")
	})

	t.Run("duplicate ordinal", func(t *testing.T) {
		assert.Error(t, s.Save(ctx, run.ID, annotated(t, 0)))
	})

	t.Run("unknown run", func(t *testing.T) {
		assert.Error(t, s.Save(ctx, "no-such-run", annotated(t, 9)), "foreign key")
		assert.True(t, errors.IsNotFoundError(s.FinishRun(ctx, "no-such-run")))

		_, err := s.Stats(ctx, "no-such-run")
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore(wtutesting.CreateMigratedTestDB(t))

	_, err := s.Stats(ctx, "")
	assert.True(t, errors.IsNotFoundError(err))

	first, err := s.BeginRun(ctx, []string{"LiteralNormalization"})
	require.NoError(t, err)
	second, err := s.BeginRun(ctx, nil)
	require.NoError(t, err)

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Empty(t, runs[0].Tasks)
	assert.Nil(t, runs[0].FinishedAt)
	assert.Equal(t, first.ID, runs[1].ID)

	runs, err = s.Runs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
