package models

import "time"

// WeightMap maps provider (bookmaker) id to its aggregation weight
type WeightMap map[string]float64

// ProviderSnapshot is one provider's normalized probabilities for a match
type ProviderSnapshot struct {
	ProviderID string    `json:"provider_id"`
	HomeProb   float64   `json:"home_prob"`
	AwayProb   float64   `json:"away_prob"`
	DrawProb   *float64  `json:"draw_prob,omitempty"`
	LastUpdate time.Time `json:"last_update"`
}

// AggregatedOdds is the consensus of all providers for a match
type AggregatedOdds struct {
	HomeProb              float64       `json:"home_prob"`
	AwayProb              float64       `json:"away_prob"`
	DrawProb              *float64      `json:"draw_prob,omitempty"`
	Tip                   SelectionKind `json:"tip"`
	Confidence            float64       `json:"confidence"`
	ContributingProviders int           `json:"contributing_providers"`
	LastUpdated           time.Time     `json:"last_updated"`
}

// ProviderOdds is one row of the bookmaker comparison table on a match page
type ProviderOdds struct {
	ProviderID string    `json:"provider_id"`
	HomeOdds   float64   `json:"home_odds"`
	AwayOdds   float64   `json:"away_odds"`
	DrawOdds   *float64  `json:"draw_odds,omitempty"`
	HomeProb   float64   `json:"home_prob"`
	AwayProb   float64   `json:"away_prob"`
	DrawProb   *float64  `json:"draw_prob,omitempty"`
	Overround  float64   `json:"overround"`
	Weight     float64   `json:"weight"`
	LastUpdate time.Time `json:"last_update"`
}

// Match is a row of the matches list. Odds is nil when no provider has priced it.
type Match struct {
	ID           string          `json:"id"`
	League       string          `json:"league"`
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	CommenceTime time.Time       `json:"commence_time"`
	Round        int             `json:"round,omitempty"`
	Odds         *AggregatedOdds `json:"odds"`
}

// MatchDetail adds the per-provider comparison to a Match
type MatchDetail struct {
	Match
	Providers []ProviderOdds `json:"providers"`
}
