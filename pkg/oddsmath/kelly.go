package oddsmath

// KellyFraction returns the full-Kelly stake as a fraction of bankroll for a
// bet at decimalOdds that wins with probability p
// Kelly% = (b×p - q) / b, where b = decimal - 1 and q = 1 - p
//
// Non-positive Kelly (no edge) and invalid inputs return 0.
//
// Example:
// p = 0.55, decimal 2.00 → 0.10
func KellyFraction(p, decimalOdds float64) float64 {
	if p <= 0 || p >= 1 || decimalOdds <= 1.0 {
		return 0
	}

	b := decimalOdds - 1.0
	q := 1.0 - p
	kelly := (b*p - q) / b

	if kelly <= 0 {
		return 0
	}

	return kelly
}
