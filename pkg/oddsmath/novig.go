package oddsmath

import "fmt"

// NormalizeTwoWay removes the margin from a two-way market by proportional scaling
//
// Formula:
// S = home + away
// fairHome = home / S, fairAway = away / S
//
// Example:
// 0.5238 / 0.5238 (-110 / -110, 4.76% overround) → 0.50 / 0.50
func NormalizeTwoWay(home, away float64) (fairHome, fairAway float64, err error) {
	total := home + away
	if total <= 0 {
		return 0, 0, fmt.Errorf("%w: two-way probabilities sum to %v", ErrDegenerateMarket, total)
	}

	return home / total, away / total, nil
}

// NormalizeThreeWay is the three-outcome version of NormalizeTwoWay, used for
// markets with a draw.
func NormalizeThreeWay(home, draw, away float64) (fairHome, fairDraw, fairAway float64, err error) {
	total := home + draw + away
	if total <= 0 {
		return 0, 0, 0, fmt.Errorf("%w: three-way probabilities sum to %v", ErrDegenerateMarket, total)
	}

	return home / total, draw / total, away / total, nil
}

// ImpliedProbabilities converts a list of decimal odds to implied probabilities
func ImpliedProbabilities(odds []float64) ([]float64, error) {
	probs := make([]float64, len(odds))
	for i, o := range odds {
		p, err := DecimalToImpliedProbability(o)
		if err != nil {
			return nil, err
		}
		probs[i] = p
	}
	return probs, nil
}

// CalculateOverround returns the bookmaker margin of a market from its decimal odds
// Overround = Σ(1/odds) - 1
//
// Example:
// 1.91 / 1.91 → 0.047 (4.7% margin)
func CalculateOverround(odds []float64) (float64, error) {
	if len(odds) == 0 {
		return 0, fmt.Errorf("%w: no odds provided", ErrDegenerateMarket)
	}

	probs, err := ImpliedProbabilities(odds)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, p := range probs {
		total += p
	}

	return total - 1.0, nil
}
