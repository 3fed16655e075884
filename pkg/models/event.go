package models

import "time"

// MarketType defines how many mutually exclusive outcomes a head-to-head market has
type MarketType string

const (
	MarketTypeTwoWay   MarketType = "two_way"   // home, away
	MarketTypeThreeWay MarketType = "three_way" // home, draw, away (soccer)
)

// SelectionKind identifies one side of a head-to-head market
type SelectionKind string

const (
	SelectionHome SelectionKind = "home"
	SelectionDraw SelectionKind = "draw"
	SelectionAway SelectionKind = "away"
)

// Sport is one entry of the sport registry
type Sport struct {
	Code       string     `json:"code" yaml:"code"`               // EPL, NBA, ...
	Name       string     `json:"name" yaml:"name"`               // English Premier League
	Icon       string     `json:"icon,omitempty" yaml:"icon"`     // display hint
	Group      string     `json:"group,omitempty" yaml:"group"`   // Soccer, Basketball, ...
	Key        string     `json:"sport_key" yaml:"key"`           // upstream key, e.g. soccer_epl
	MarketType MarketType `json:"market_type" yaml:"market_type"` // two_way or three_way
}

// Quote is one bookmaker's head-to-head prices for an event (decimal odds)
type Quote struct {
	BookmakerID string    `json:"bookmaker_id"`
	HomeOdds    float64   `json:"home_odds"`
	AwayOdds    float64   `json:"away_odds"`
	DrawOdds    *float64  `json:"draw_odds,omitempty"` // three-way markets only
	LastUpdate  time.Time `json:"last_update"`
}

// HasDraw reports whether the quote carries a draw price
func (q Quote) HasDraw() bool {
	return q.DrawOdds != nil
}

// Event is a sporting event with the bookmaker quotes collected for it
type Event struct {
	ID           string    `json:"id"`
	SportKey     string    `json:"sport_key"`
	SportTitle   string    `json:"sport_title,omitempty"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	CommenceTime time.Time `json:"commence_time"`
	Quotes       []Quote   `json:"quotes"`
}

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 {
	return &v
}
