package oddsmath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/oddsmath"
)

func TestCalculateEdge(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		odds float64
		want float64
	}{
		{name: "Positive edge", p: 0.55, odds: 2.00, want: 0.10},
		{name: "Fair price", p: 0.50, odds: 2.00, want: 0.0},
		{name: "Negative edge", p: 0.50, odds: 1.91, want: -0.045},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, oddsmath.CalculateEdge(tt.p, tt.odds), 1e-9)
		})
	}
}

func TestCalculateEdge_Monotonic(t *testing.T) {
	probs := []float64{0.1, 0.3, 0.5, 0.7, 0.9}
	odds := []float64{1.1, 1.5, 2.0, 3.5, 10.0}

	for _, o := range odds {
		for i := 1; i < len(probs); i++ {
			assert.Greater(t, oddsmath.CalculateEdge(probs[i], o), oddsmath.CalculateEdge(probs[i-1], o))
		}
	}

	for _, p := range probs {
		for i := 1; i < len(odds); i++ {
			assert.Greater(t, oddsmath.CalculateEdge(p, odds[i]), oddsmath.CalculateEdge(p, odds[i-1]))
		}
	}
}

func TestKellyFraction(t *testing.T) {
	assert.InDelta(t, 0.10, oddsmath.KellyFraction(0.55, 2.0), 1e-9)
	assert.Equal(t, 0.0, oddsmath.KellyFraction(0.45, 2.0))
	assert.Equal(t, 0.0, oddsmath.KellyFraction(0.5, 1.0))
	assert.Equal(t, 0.0, oddsmath.KellyFraction(1.2, 2.0))
	assert.True(t, oddsmath.IsPositiveEV(0.55, 2.0))
	assert.False(t, oddsmath.IsPositiveEV(0.5, 2.0))
}
