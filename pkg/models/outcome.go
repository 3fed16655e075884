package models

import "time"

// Outcome is one selectable bet on one event with its margin-free probability
// and value. An event's outcomes have true probabilities summing to 1.
type Outcome struct {
	Sport           string             `json:"sport"` // registry code
	SportKey        string             `json:"sport_key"`
	EventID         string             `json:"event_id"`
	HomeTeam        string             `json:"home_team"`
	AwayTeam        string             `json:"away_team"`
	SelectionLabel  string             `json:"selection"`
	SelectionKind   SelectionKind      `json:"selection_kind"`
	TrueProbability float64            `json:"true_probability"`
	Edge            float64            `json:"edge"`
	BestOdds        float64            `json:"best_odds"`
	BestBookmaker   string             `json:"best_bookmaker"`
	BookmakerOdds   map[string]float64 `json:"bookmaker_odds"`
	CommenceTime    time.Time          `json:"commence_time"`
}

// AverageOdds returns the mean of the outcome's bookmaker prices, or 0 if there are none
func (o Outcome) AverageOdds() float64 {
	if len(o.BookmakerOdds) == 0 {
		return 0
	}

	total := 0.0
	for _, odds := range o.BookmakerOdds {
		total += odds
	}
	return total / float64(len(o.BookmakerOdds))
}
