package models

import "time"

// RoundDefinition is a contiguous date window covering one or more matches
type RoundDefinition struct {
	RoundNumber int       `json:"round_number"`
	Label       string    `json:"label"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	MatchCount  int       `json:"match_count"`
}

// Contains reports whether t falls inside the round window (inclusive)
func (r RoundDefinition) Contains(t time.Time) bool {
	return !t.Before(r.StartDate) && !t.After(r.EndDate)
}
