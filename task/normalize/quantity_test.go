package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in         string
		unit       string
		quantity   string
		value      float64
		normalized float64
	}{
		{"12 km", "km", "length", 12, 12000},
		{"12km", "km", "length", 12, 12000},
		{"3 kilometers", "km", "length", 3, 3000},
		{"180 cm", "cm", "length", 180, 1.8},
		{"5 m", "m", "length", 5, 5},
		{"7 mm", "mm", "length", 7, 0.007},
		{"2 ft", "ft", "length", 2, 0.6096},
		{"80 kg", "kg", "mass", 80, 80},
		{"2 t", "t", "mass", 2, 2000},
		{"250 g", "g", "mass", 250, 0.25},
		{"12 km²", "km²", "area", 12, 12e6},
		{"40 ha", "ha", "area", 40, 4e5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseQuantity(tt.in)
			require.Len(t, got, 1)
			assert.Equal(t, tt.unit, got[0].Unit)
			assert.Equal(t, tt.quantity, got[0].Quantity)
			assert.InDelta(t, tt.value, got[0].Value, 1e-9)
			assert.InDelta(t, tt.normalized, got[0].ValueNormalized, 1e-6)
		})
	}
}

func TestParseQuantityAmbiguousNumber(t *testing.T) {
	got := ParseQuantity("1,500 m")
	require.Len(t, got, 2)
	assert.InDelta(t, 1.5, got[0].Value, 1e-9)
	assert.InDelta(t, 1500, got[1].Value, 1e-9)
	assert.Equal(t, "dt:metre", got[0].DataType)
}

func TestParseQuantityRejects(t *testing.T) {
	for _, s := range []string{"km", "12", "12 parsecs", "Paris", "12 km long"} {
		assert.Empty(t, ParseQuantity(s), s)
	}
}
