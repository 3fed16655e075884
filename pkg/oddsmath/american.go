package oddsmath

import (
	"fmt"
	"math"
)

// DecimalToImpliedProbability converts decimal odds to implied probability
// Decimal 2.00 → 0.50 (50%)
// Decimal 1.50 → 0.667 (66.7%)
func DecimalToImpliedProbability(decimal float64) (float64, error) {
	if decimal <= 1.0 || math.IsNaN(decimal) || math.IsInf(decimal, 0) {
		return 0, fmt.Errorf("%w: decimal odds must be > 1.0, got %v", ErrInvalidOdds, decimal)
	}

	return 1.0 / decimal, nil
}

// AmericanToImpliedProbability converts American odds directly to implied probability
// American +150 → 0.40
// American -150 → 0.60
func AmericanToImpliedProbability(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("%w: American odds cannot be 0", ErrInvalidOdds)
	}

	if american > 0 {
		return 100.0 / (float64(american) + 100.0), nil
	}

	a := float64(-american)
	return a / (a + 100.0), nil
}

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("%w: American odds cannot be 0", ErrInvalidOdds)
	}

	if american > 0 {
		return (float64(american) / 100.0) + 1.0, nil
	}

	return (100.0 / float64(-american)) + 1.0, nil
}

// DecimalToAmerican converts decimal odds to American odds
// Decimal 2.50 → American +150
// Decimal 1.67 → American -150
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("%w: decimal odds must be > 1.0, got %v", ErrInvalidOdds, decimal)
	}

	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}

	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}
