package models

import "time"

// MultiType names a fixed multi size
type MultiType string

const (
	MultiTypeTriple MultiType = "triple"
	MultiTypeNickel MultiType = "nickel"
	MultiTypeDime   MultiType = "dime"
	MultiTypeScore  MultiType = "score"
)

// AllMultiTypes lists the generated multis, smallest first
var AllMultiTypes = []MultiType{MultiTypeTriple, MultiTypeNickel, MultiTypeDime, MultiTypeScore}

// Size returns the number of legs the multi type asks for (0 if unknown)
func (t MultiType) Size() int {
	switch t {
	case MultiTypeTriple:
		return 3
	case MultiTypeNickel:
		return 5
	case MultiTypeDime:
		return 10
	case MultiTypeScore:
		return 20
	default:
		return 0
	}
}

// Leg is one selection of a multi, priced at the multi's bookmaker
type Leg struct {
	Outcome
	Odds        float64 `json:"odds"`
	AverageUsed bool    `json:"average_used,omitempty"` // bookmaker did not price this leg
}

// GeneratedMulti is a fixed-size multi built from the top ranked outcomes.
// SuccessProbability assumes the legs are independent.
type GeneratedMulti struct {
	Type               MultiType `json:"type"`
	Legs               []Leg     `json:"legs"`
	Bookmaker          string    `json:"bookmaker"`
	TotalOdds          float64   `json:"total_odds"`
	SuccessProbability float64   `json:"success_probability"`
	PotentialPayout    float64   `json:"potential_payout"` // per unit stake
	ExpectedValue      float64   `json:"expected_value"`
	KellyFraction      float64   `json:"kelly_fraction"`
	Degraded           bool      `json:"degraded,omitempty"`
	Warning            string    `json:"warning,omitempty"`
}

// MultiSet holds one multi of each type
type MultiSet struct {
	Triple GeneratedMulti `json:"triple"`
	Nickel GeneratedMulti `json:"nickel"`
	Dime   GeneratedMulti `json:"dime"`
	Score  GeneratedMulti `json:"score"`
}

// ByType returns the multi of the given type
func (s MultiSet) ByType(t MultiType) (GeneratedMulti, bool) {
	switch t {
	case MultiTypeTriple:
		return s.Triple, true
	case MultiTypeNickel:
		return s.Nickel, true
	case MultiTypeDime:
		return s.Dime, true
	case MultiTypeScore:
		return s.Score, true
	default:
		return GeneratedMulti{}, false
	}
}

// MultiResponse is the multi generator's full result for one run
type MultiResponse struct {
	ID                     string    `json:"id"`
	GeneratedAt            time.Time `json:"generated_at"`
	MinProbability         float64   `json:"min_probability"`
	Multis                 MultiSet  `json:"multis"`
	TotalOutcomesAvailable int       `json:"total_outcomes_available"`
	Outcomes               []Outcome `json:"outcomes"`
}
