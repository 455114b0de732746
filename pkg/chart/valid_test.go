package chart_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/salesboard/pkg/chart"
)

func TestValid(t *testing.T) {
	t.Parallel()

	var nilSlice []float64

	var nilPtr *[]float64

	values := []float64{0, 3}

	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"nil", nil, false},
		{"nil slice", nilSlice, false},
		{"nil pointer", nilPtr, false},
		{"empty slice", []float64{}, false},
		{"all zero", []float64{0, 0, 0}, false},
		{"all NaN", []float64{math.NaN()}, false},
		{"one non-zero", []float64{0, 0, 5}, true},
		{"pointer to values", &values, true},
		{"empty map", map[string]float64{}, false},
		{"map of zeros", map[string]float64{"a": 0}, false},
		{"map with value", map[string]float64{"a": 1}, true},
		{"empty strings", []string{"", ""}, false},
		{"strings", []string{"", "x"}, true},
		{"nil entries", []any{nil, nil}, false},
		{"points", []chart.Point{{X: 1, Y: 2}}, true},
		{"zero points", []chart.Point{{}}, false},
		{"zero scalar", 0, false},
		{"scalar", 7, true},
		{"empty struct", struct{ A int }{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, chart.Valid(tt.in))
		})
	}
}
