package oddsmath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/oddsmath"
)

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func TestPowerMethodNormalize_SumsToOne(t *testing.T) {
	markets := [][]float64{
		{2.0, 2.0},
		{1.91, 1.91},
		{1.25, 4.50},
		{1.01, 21.0},
		{1.5, 3.0, 6.0},
		{2.50, 3.20, 2.90},
		{1.10, 8.00, 15.0},
		{2.10, 2.10},
		{3.0, 3.0, 3.0},
	}

	for _, odds := range markets {
		fair, err := oddsmath.PowerMethodNormalize(odds)
		require.NoError(t, err, "odds %v", odds)
		require.Len(t, fair, len(odds))
		assert.InDelta(t, 1.0, sum(fair), 1e-3, "odds %v", odds)
	}
}

func TestPowerMethodNormalize_ThreeWayFavorite(t *testing.T) {
	fair, err := oddsmath.PowerMethodNormalize([]float64{1.5, 3.0, 6.0})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, sum(fair), 1e-3)
	assert.Greater(t, fair[0], fair[1])
	assert.Greater(t, fair[1], fair[2])
	assert.InDelta(t, 0.615, fair[0], 0.005)
}

func TestPowerMethodNormalize_NoMargin(t *testing.T) {
	fair, err := oddsmath.PowerMethodNormalize([]float64{2.0, 2.0})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, fair[0], 1e-3)
	assert.InDelta(t, 0.5, fair[1], 1e-3)
}

func TestPowerMethodNormalize_FavouriteKeepsMoreThanProportional(t *testing.T) {
	odds := []float64{1.25, 4.50}

	power, err := oddsmath.PowerMethodNormalize(odds)
	require.NoError(t, err)

	home, _, err := oddsmath.NormalizeTwoWay(1/odds[0], 1/odds[1])
	require.NoError(t, err)

	assert.Greater(t, power[0], home)
}

func TestPowerMethodNormalize_InvalidInput(t *testing.T) {
	_, err := oddsmath.PowerMethodNormalize([]float64{2.0})
	assert.ErrorIs(t, err, oddsmath.ErrDegenerateMarket)

	_, err = oddsmath.PowerMethodNormalize(nil)
	assert.ErrorIs(t, err, oddsmath.ErrDegenerateMarket)

	_, err = oddsmath.PowerMethodNormalize([]float64{1.0, 2.0})
	assert.ErrorIs(t, err, oddsmath.ErrInvalidOdds)
}

func TestPowerMethodNormalize_NonConvergingReturnsEstimate(t *testing.T) {
	// Implied probabilities sum to well below 1: the root lies below the
	// lower exponent bound, so the search ends at the bound without error.
	fair, err := oddsmath.PowerMethodNormalize([]float64{2000.0, 2000.0})
	require.NoError(t, err)
	require.Len(t, fair, 2)

	assert.InDelta(t, fair[0], fair[1], 1e-12)
	assert.Less(t, sum(fair), 1.0)
}
