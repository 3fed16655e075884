package oddsmath

import (
	"fmt"
	"math"
)

const (
	// PowerMinExponent and PowerMaxExponent bound the bisection search for k
	PowerMinExponent = 0.1
	PowerMaxExponent = 10.0

	// PowerTolerance is the allowed distance of Σp^k from 1
	PowerTolerance = 1e-4

	// PowerMaxIterations caps the bisection loop
	PowerMaxIterations = 100
)

// PowerMethodNormalize removes the margin from a market of N mutually exclusive
// outcomes with the Power Method
//
// Formula:
// p_i = 1 / odds_i
// find k such that Σ p_i^k = 1
// fair_i = p_i^k
//
// Unlike proportional scaling, the power transform takes more margin off long
// shots than off favourites, so relative value between outcomes is preserved.
// k is found by bisection on [PowerMinExponent, PowerMaxExponent]. When the
// search does not reach PowerTolerance in PowerMaxIterations the estimate from
// the last iteration is returned.
//
// Example:
// [1.5, 3.0, 6.0] → k ≈ 1.20 → [0.615, 0.268, 0.117]
func PowerMethodNormalize(odds []float64) ([]float64, error) {
	if len(odds) < 2 {
		return nil, fmt.Errorf("%w: power method needs at least 2 outcomes, got %d", ErrDegenerateMarket, len(odds))
	}

	probs, err := ImpliedProbabilities(odds)
	if err != nil {
		return nil, err
	}

	k := solvePowerExponent(probs)

	fair := make([]float64, len(probs))
	for i, p := range probs {
		fair[i] = math.Pow(p, k)
	}

	return fair, nil
}

// solvePowerExponent bisects for the k at which Σp^k crosses 1.
// Σp^k is strictly decreasing in k because every p is in (0, 1).
func solvePowerExponent(probs []float64) float64 {
	lo, hi := PowerMinExponent, PowerMaxExponent
	k := (lo + hi) / 2

	for i := 0; i < PowerMaxIterations; i++ {
		k = (lo + hi) / 2
		diff := powerSum(probs, k) - 1.0

		if math.Abs(diff) < PowerTolerance {
			break
		}

		if diff > 0 {
			lo = k
		} else {
			hi = k
		}
	}

	return k
}

func powerSum(probs []float64, k float64) float64 {
	sum := 0.0
	for _, p := range probs {
		sum += math.Pow(p, k)
	}
	return sum
}
