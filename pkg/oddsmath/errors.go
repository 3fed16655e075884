package oddsmath

import "errors"

var (
	// ErrInvalidOdds is returned for decimal odds <= 1.0 or American odds of 0.
	ErrInvalidOdds = errors.New("invalid odds")

	// ErrDegenerateMarket is returned when the implied probabilities of a
	// market do not sum to a positive total.
	ErrDegenerateMarket = errors.New("degenerate market")
)
