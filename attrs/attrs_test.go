package attrs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dateAttrs struct {
	Year       int               `attr:"year"`
	Month      *int              `attr:"month,nullable"`
	DayOfMonth *int              `attr:"day_of_month,nullable"`
	Notation   string            `attr:"notation,omitempty"`
	Score      float64           `attr:"score,omitempty"`
	Refs       map[string]string `attr:"references,omitempty"`
	Tags       []string          `attr:"tags,omitempty"`
	Ignored    string
}

func TestScanBasic(t *testing.T) {
	m := map[string]any{
		"year":         float64(2019), // JSON numbers are float64
		"month":        float64(2),
		"day_of_month": nil,
		"notation":     "MM YYYY",
		"references":   map[string]any{"EL": "0:1/0", "bad": 3},
		"tags":         []any{"a", 2, "b"},
	}

	var d dateAttrs
	Scan(m, &d)

	assert.Equal(t, 2019, d.Year)
	require.NotNil(t, d.Month)
	assert.Equal(t, 2, *d.Month)
	assert.Nil(t, d.DayOfMonth)
	assert.Equal(t, "MM YYYY", d.Notation)
	assert.Equal(t, map[string]string{"EL": "0:1/0"}, d.Refs)
	assert.Equal(t, []string{"a", "b"}, d.Tags)
}

func TestScanNilAndNonPointer(t *testing.T) {
	var d dateAttrs
	Scan(nil, &d)
	Scan(map[string]any{"year": float64(1)}, d)
	assert.Zero(t, d.Year)
}

func TestFromNullable(t *testing.T) {
	month := 6
	m := From(dateAttrs{Year: 2017, Month: &month})

	assert.Equal(t, 2017, m["year"])
	assert.Equal(t, 6, m["month"])

	v, present := m["day_of_month"]
	assert.True(t, present, "nullable nil pointer should be written as null")
	assert.Nil(t, v)

	_, present = m["notation"]
	assert.False(t, present, "omitempty zero string should be dropped")
	_, present = m["Ignored"]
	assert.False(t, present)
}

func TestRoundTripThroughJSON(t *testing.T) {
	month, day := 12, 24
	src := dateAttrs{Year: 1990, Month: &month, DayOfMonth: &day, Score: 0.5, Refs: map[string]string{"EL": "1:0/2"}}

	raw, err := json.Marshal(From(src))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))

	var dst dateAttrs
	Scan(m, &dst)
	assert.Equal(t, src, dst)
}
