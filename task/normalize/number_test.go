package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(ns []Number) []float64 {
	out := make([]float64, len(ns))
	for i, n := range ns {
		out[i] = n.Value
	}
	return out
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want []float64
	}{
		{"42", []float64{42}},
		{"-7", []float64{-7}},
		{"+3.5e2", []float64{350, 3500}},
		{"1,234,567", []float64{1234567}},
		{"1.234.567", []float64{1234567}},
		{"1.234,56", []float64{1234.56}},
		{"1,234.56", []float64{1234.56}},
		{"2,240,621", []float64{2240621}},
		{"1,5", []float64{1.5, 15}},
		{"1.500", []float64{1.5, 1500}},
		{".5", []float64{0.5}},
		{",25", []float64{0.25}},
		{"1.2.3,4,5", nil},
		{"1,234.5.6", nil},
		{"", nil},
		{"abc", nil},
		{"12 km", nil},
		{"1..2", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseNumber(tt.in)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.InDeltaSlice(t, tt.want, values(got), 1e-9)
		})
	}
}

func TestParseNumberRecordsSeparators(t *testing.T) {
	got := ParseNumber("1,5")
	require.Len(t, got, 2)
	assert.Equal(t, Number{Value: 1.5, Decimal: ","}, got[0])
	assert.Equal(t, Number{Value: 15, Grouping: ","}, got[1])

	got = ParseNumber("1.234,56")
	require.Len(t, got, 1)
	assert.Equal(t, ",", got[0].Decimal)
	assert.Equal(t, ".", got[0].Grouping)
}

func TestParseNumberNeverPicksSilently(t *testing.T) {
	// a single separator with three trailing digits is genuinely ambiguous
	for _, s := range []string{"1,000", "1.000", "12,345"} {
		assert.Len(t, ParseNumber(s), 2, s)
	}
}
