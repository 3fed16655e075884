package oddsmath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/oddsmath"
)

func TestDecimalToImpliedProbability(t *testing.T) {
	tests := []struct {
		name       string
		decimal    float64
		want       float64
		shouldFail bool
	}{
		{name: "Even money", decimal: 2.00, want: 0.50},
		{name: "Favorite 1.50", decimal: 1.50, want: 0.6667},
		{name: "Long shot 11.0", decimal: 11.0, want: 0.0909},
		{name: "Exactly 1.0", decimal: 1.0, shouldFail: true},
		{name: "Below 1.0", decimal: 0.95, shouldFail: true},
		{name: "Zero", decimal: 0, shouldFail: true},
		{name: "Negative", decimal: -2.0, shouldFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.DecimalToImpliedProbability(tt.decimal)

			if tt.shouldFail {
				require.Error(t, err)
				assert.ErrorIs(t, err, oddsmath.ErrInvalidOdds)
				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestAmericanToImpliedProbability(t *testing.T) {
	tests := []struct {
		name       string
		american   int
		want       float64
		shouldFail bool
	}{
		{name: "Underdog +150", american: 150, want: 0.40},
		{name: "Favorite -150", american: -150, want: 0.60},
		{name: "Pick'em +100", american: 100, want: 0.50},
		{name: "Standard -110", american: -110, want: 0.5238},
		{name: "Zero", american: 0, shouldFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.AmericanToImpliedProbability(tt.american)

			if tt.shouldFail {
				assert.ErrorIs(t, err, oddsmath.ErrInvalidOdds)
				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestAmericanDecimalRoundTrip(t *testing.T) {
	for _, american := range []int{-300, -150, -110, 100, 150, 250} {
		decimal, err := oddsmath.AmericanToDecimal(american)
		require.NoError(t, err)

		back, err := oddsmath.DecimalToAmerican(decimal)
		require.NoError(t, err)

		assert.InDelta(t, american, back, 1, "American %d", american)
	}

	_, err := oddsmath.DecimalToAmerican(1.0)
	assert.ErrorIs(t, err, oddsmath.ErrInvalidOdds)
}
