package table

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/wtu/errors"
)

func TestDecodeRecord(t *testing.T) {
	data := []byte(`{
		"relation": [["Name","Paris"],["Population","2,240,621"]],
		"headerRowIndex": 0,
		"url": "http://example.org/t1",
		"annotations": {
			":": [{"source":"gold","task":"Note","comment":"x"}],
			"0:1": [{"source":"gold","task":"EntityLinking","resource_uri":"dbr:Paris"},
			        {"source":"preprocessing","task":"EntityLinking","type":"resource","resource_uri":"dbr:Paris","frequency":1}]
		}
	}`)

	tbl, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.HeaderRow())
	assert.Equal(t, "Paris", tbl.Content(0, 1))

	anns := tbl.Cell(0, 1).Annotations()
	require.Len(t, anns, 2)
	other, ok := anns[0].Body.(*Other)
	require.True(t, ok)
	assert.Equal(t, "dbr:Paris", other.Fields["resource_uri"])
	res, ok := anns[1].Body.(*Resource)
	require.True(t, ok)
	assert.InDelta(t, 1.0, res.Frequency, 1e-9)

	require.Len(t, tbl.Annotations(TableRegion()), 1)
}

func TestDecodeMergesTableKeysInOrder(t *testing.T) {
	data := []byte(`{
		"relation": [["a"]],
		"annotations": {
			":": [{"source":"gold","task":"Note","comment":"second"}],
			"": [{"source":"gold","task":"Note","comment":"first"}]
		}
	}`)

	for i := 0; i < 50; i++ {
		tbl, err := Decode(data)
		require.NoError(t, err)
		anns := tbl.Annotations(TableRegion())
		require.Len(t, anns, 2)
		assert.Equal(t, "first", anns[0].Body.(*Other).Fields["comment"])
		assert.Equal(t, "second", anns[1].Body.(*Other).Fields["comment"])
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := map[string]string{
		"not json":            `{"relation":`,
		"no relation":         `{"annotations":{}}`,
		"empty relation":      `{"relation":[]}`,
		"ragged relation":     `{"relation":[["a","b"],["c"]]}`,
		"bad region key":      `{"relation":[["a"]],"annotations":{"x":[]}}`,
		"region outside":      `{"relation":[["a"]],"annotations":{"3:0":[{"source":"s","task":"t"}]}}`,
		"missing envelope":    `{"relation":[["a"]],"annotations":{"0:0":[{"task":"t"}]}}`,
		"header out of range": `{"relation":[["a"]],"headerRowIndex":4}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(in))
			assert.True(t, errors.IsMalformedRecord(err), "got %v", err)
		})
	}
}

func TestEncodeCompactsAndPreserves(t *testing.T) {
	tbl, err := Decode([]byte(`{"relation":[["a","b"]],"url":"http://example.org","pageTitle":"T"}`))
	require.NoError(t, err)

	tbl.Store().GetOrCreate(CellRegion(0, 0))
	tbl.Cell(0, 1).Annotate(Annotation{Source: "p", Task: TaskLiteralNormalization, Type: TypePlain, Body: &Plain{Value: "b"}})

	data, err := Encode(tbl)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "http://example.org", out["url"])
	assert.Equal(t, "T", out["pageTitle"])
	assert.NotContains(t, out, "headerRowIndex")

	anns := out["annotations"].(map[string]any)
	assert.NotContains(t, anns, "0:0")
	require.Contains(t, anns, "0:1")
	first := anns["0:1"].([]any)[0].(map[string]any)
	assert.Equal(t, "b", first["value"])
	assert.Equal(t, "plain", first["type"])

	again, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, tbl.Cell(0, 1).Annotations(), again.Cell(0, 1).Annotations())
}

func TestEncodeKeepsHeaderRowIndex(t *testing.T) {
	tbl, err := Decode([]byte(`{"relation":[["h","v"]],"headerRowIndex":-1}`))
	require.NoError(t, err)
	data, err := Encode(tbl)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"headerRowIndex":-1`)
}
