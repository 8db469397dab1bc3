package record

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/table"
)

func TestReader(t *testing.T) {
	input := strings.Join([]string{
		`{"relation": [["Paris", "Lyon"], ["2148000", "513000"]], "url": "http://example.org/cities"}`,
		``,
		`{"relation": [`,
		`{"url": "http://example.org/empty"}`,
		`{"relation": [["Berlin"]], "headerRowIndex": -1}`,
	}, "\n")
	r := NewReader(strings.NewReader(input))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Ordinal)
	assert.Equal(t, 1, rec.Line)
	assert.Equal(t, 2, rec.Table.NumCols())
	assert.Equal(t, "Lyon", rec.Table.Content(0, 1))

	rec, err = r.Next()
	assert.True(t, errors.IsMalformedRecord(err), "truncated JSON")
	assert.Equal(t, 1, rec.Ordinal, "blank lines take no ordinal")
	assert.Equal(t, 3, rec.Line)
	assert.Contains(t, err.Error(), "line 3")

	rec, err = r.Next()
	assert.True(t, errors.IsMalformedRecord(err), "missing relation")
	assert.Equal(t, 2, rec.Ordinal)

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Ordinal)
	assert.Equal(t, "Berlin", rec.Table.Content(0, 0))

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderReplacesInvalidUTF8(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("{\"relation\": [[\"Z\xfcrich\"]]}\n")))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "Z�rich", rec.Table.Content(0, 0))
}

func TestReaderCRLF(t *testing.T) {
	r := NewReader(strings.NewReader("{\"relation\": [[\"a\"]]}\r\n{\"relation\": [[\"b\"]]}\r\n"))

	for _, want := range []string{"a", "b"} {
		rec, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, want, rec.Table.Content(0, 0))
	}
	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestWriter(t *testing.T) {
	tbl, err := table.Decode([]byte(`{"relation": [["Paris"]], "pageTitle": "Cities"}`))
	require.NoError(t, err)
	tbl.Store().GetOrCreate(table.RowRegion(0))
	tbl.Cell(0, 0).Annotate(table.Annotation{
		Source: "test", Task: table.TaskLiteralNormalization, Type: table.TypePlain,
		Body: &table.Plain{Value: "Paris"},
	})

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(tbl))
	require.NoError(t, w.Write(tbl))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &out))
	assert.Equal(t, "Cities", out["pageTitle"])
	annotations := out["annotations"].(map[string]any)
	assert.Contains(t, annotations, "0:0")
	assert.NotContains(t, annotations, ":0", "empty regions are compacted away")

	t.Run("round trip", func(t *testing.T) {
		rec, err := NewReader(strings.NewReader(buf.String())).Next()
		require.NoError(t, err)
		got := rec.Table.Cell(0, 0).Annotations()
		require.Len(t, got, 1)
		assert.Equal(t, "Paris", got[0].Body.(*table.Plain).Value)
	})
}
