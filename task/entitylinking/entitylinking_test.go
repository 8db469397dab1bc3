package entitylinking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/index"
	"github.com/teranos/wtu/table"
)

type failingIndex struct{}

func (failingIndex) Lookup(string) ([]index.Candidate, error) {
	return nil, errors.WrapBackendUnavailable(errors.New("disk I/O error"), "test index")
}

func (failingIndex) Similar(string, float64) ([]index.Candidate, error) {
	return nil, nil
}

func loadIndex(t *testing.T, content string) index.MentionIndex {
	t.Helper()
	ix, err := index.ReadMentionCSV(strings.NewReader(content), "mentions.tsv", '\t', nil)
	require.NoError(t, err)
	return ix
}

func TestRank(t *testing.T) {
	cands := []index.Candidate{
		{EntityURI: "dbr:A", Frequency: 10, Similarity: 1},
		{EntityURI: "dbr:B", Frequency: 30, Similarity: 1},
		{EntityURI: "dbr:A", Frequency: 25, Similarity: 1},
		{EntityURI: "dbr:C", Frequency: 20, Similarity: 1},
		{EntityURI: "dbr:D", Frequency: 15, Similarity: 1},
	}

	ranked := Rank(cands, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"dbr:A", "dbr:B", "dbr:C"}, []string{ranked[0].EntityURI, ranked[1].EntityURI, ranked[2].EntityURI})
	assert.Equal(t, 35, ranked[0].Frequency)

	t.Run("score denominator includes truncated candidates", func(t *testing.T) {
		assert.InDelta(t, 0.35, ranked[0].Score, 1e-9)
		assert.InDelta(t, 0.30, ranked[1].Score, 1e-9)
		assert.InDelta(t, 0.20, ranked[2].Score, 1e-9)
	})

	t.Run("ties break by URI", func(t *testing.T) {
		got := Rank([]index.Candidate{
			{EntityURI: "dbr:Z", Frequency: 5},
			{EntityURI: "dbr:M", Frequency: 5},
		}, 3)
		assert.Equal(t, "dbr:M", got[0].EntityURI)
		assert.Equal(t, "dbr:Z", got[1].EntityURI)
	})

	t.Run("re-ranking is idempotent", func(t *testing.T) {
		again := make([]index.Candidate, len(ranked))
		for i, r := range ranked {
			again[i] = index.Candidate{EntityURI: r.EntityURI, Frequency: r.Frequency, Similarity: 1}
		}
		reranked := Rank(again, 3)
		for i := range ranked {
			assert.Equal(t, ranked[i].EntityURI, reranked[i].EntityURI)
			assert.Equal(t, ranked[i].Frequency, reranked[i].Frequency)
		}
	})

	t.Run("zero total yields nothing", func(t *testing.T) {
		assert.Nil(t, Rank([]index.Candidate{{EntityURI: "dbr:A"}}, 3))
		assert.Nil(t, Rank(nil, 3))
	})
}

func TestRun(t *testing.T) {
	ix := loadIndex(t, "Paris\tdbr:Paris\t80\n"+
		"Paris\tdbr:Paris_Hilton\t15\n"+
		"Paris\tdbr:Paris,_Texas\t5\n"+
		"Paris\tdbr:Paris_(mythology)\t0\n"+
		"France\tdbr:France\t10\n")

	tbl, err := table.New([][]string{
		{"Paris", "Paris (France)", "Atlantis", ""},
		{"France", "frånce", "France", "France"},
	})
	require.NoError(t, err)
	require.NoError(t, tbl.SetHeaderRow(0))

	task, err := New(Options{Source: "preprocessing", Index: ix, TopN: 2})
	require.NoError(t, err)
	assert.Equal(t, table.TaskEntityLinking, task.Name())

	ok, err := task.Run(tbl)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Empty(t, tbl.Cell(0, 0).Annotations(), "header row is skipped")
	assert.Empty(t, tbl.Cell(0, 2).Annotations(), "no candidates")
	assert.Empty(t, tbl.Cell(0, 3).Annotations(), "empty cell")

	anns := tbl.Cell(0, 1).FindAnnotations(table.Filter{Task: table.TaskEntityLinking, Type: table.TypeResource})
	require.Len(t, anns, 2)
	first := anns[0].Annotation.Body.(*table.Resource)
	assert.Equal(t, "dbr:Paris", first.ResourceURI)
	assert.InDelta(t, 0.8, first.Frequency, 1e-9)
	assert.Equal(t, 80, first.RawFrequency)
	assert.Equal(t, "paris", first.Mention)
	assert.False(t, first.Fuzzy)
	assert.Equal(t, "dbr:Paris_Hilton", anns[1].Annotation.Body.(*table.Resource).ResourceURI)

	res := tbl.Cell(1, 1).Annotations()
	require.Len(t, res, 1, "transliterated mention matches")
	assert.InDelta(t, 1.0, res[0].Body.(*table.Resource).Frequency, 1e-9)
}

func TestRunFuzzyFallback(t *testing.T) {
	ix := loadIndex(t, "Berlin\tdbr:Berlin\t9\nBerlin\tdbr:Berlin_(band)\t1\n")

	tbl, err := table.New([][]string{{"Berlim", "Berlin", "Xyz"}})
	require.NoError(t, err)

	task, err := New(Options{Source: "s", Index: ix, Fuzzy: true, FuzzyCutoff: 0.8})
	require.NoError(t, err)
	_, err = task.Run(tbl)
	require.NoError(t, err)

	anns := tbl.Cell(0, 0).Annotations()
	require.Len(t, anns, 2)
	r := anns[0].Body.(*table.Resource)
	assert.Equal(t, "dbr:Berlin", r.ResourceURI)
	assert.True(t, r.Fuzzy)
	assert.InDelta(t, 0.9, r.Frequency, 1e-9)

	exact := tbl.Cell(0, 1).Annotations()
	require.Len(t, exact, 2)
	assert.False(t, exact[0].Body.(*table.Resource).Fuzzy)

	assert.Empty(t, tbl.Cell(0, 2).Annotations())

	t.Run("disabled fallback", func(t *testing.T) {
		tbl, _ := table.New([][]string{{"Berlim"}})
		task, _ := New(Options{Source: "s", Index: ix})
		_, err := task.Run(tbl)
		require.NoError(t, err)
		assert.Empty(t, tbl.Cell(0, 0).Annotations())
	})
}

func TestRunBackendFailure(t *testing.T) {
	tbl, err := table.New([][]string{{"Paris"}})
	require.NoError(t, err)

	task, err := New(Options{Source: "s", Index: failingIndex{}})
	require.NoError(t, err)

	ok, err := task.Run(tbl)
	assert.False(t, ok)
	assert.True(t, errors.IsBackendUnavailable(err))
}

func TestNewWithoutIndex(t *testing.T) {
	_, err := New(Options{})
	assert.True(t, errors.IsBackendUnavailable(err))
}
