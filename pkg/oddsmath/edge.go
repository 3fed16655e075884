package oddsmath

// CalculateEdge returns the expected value per unit stake of taking bestOdds
// when the outcome's fair probability is trueProbability
// Edge = p × odds - 1
//
// Example:
// p = 0.55, odds = 2.00 → 0.10 (10% edge)
// p = 0.50, odds = 1.91 → -0.045
//
// Positive edge = +EV bet
func CalculateEdge(trueProbability, bestOdds float64) float64 {
	return trueProbability*bestOdds - 1.0
}

// IsPositiveEV reports whether the edge is strictly positive
func IsPositiveEV(trueProbability, bestOdds float64) bool {
	return CalculateEdge(trueProbability, bestOdds) > 0
}
