package testutil

import (
	"time"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

// RefTime is the fixed "now" used across tests
var RefTime = time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

// TwoWaySport is a two-way registry entry
func TwoWaySport() models.Sport {
	return models.Sport{Code: "NBA", Name: "NBA", Group: "Basketball", Key: "basketball_nba", MarketType: models.MarketTypeTwoWay}
}

// ThreeWaySport is a three-way registry entry
func ThreeWaySport() models.Sport {
	return models.Sport{Code: "EPL", Name: "English Premier League", Group: "Soccer", Key: "soccer_epl", MarketType: models.MarketTypeThreeWay}
}

// QuoteFixture creates a two-way quote with sensible defaults
func QuoteFixture(overrides ...func(*models.Quote)) models.Quote {
	q := models.Quote{
		BookmakerID: "Sportsbet",
		HomeOdds:    1.50,
		AwayOdds:    2.60,
		LastUpdate:  RefTime.Add(-5 * time.Minute),
	}

	for _, override := range overrides {
		override(&q)
	}

	return q
}

// TwoWayQuote creates a quote from bookmaker with home and away prices
func TwoWayQuote(bookmaker string, home, away float64) models.Quote {
	return QuoteFixture(func(q *models.Quote) {
		q.BookmakerID = bookmaker
		q.HomeOdds = home
		q.AwayOdds = away
	})
}

// ThreeWayQuote creates a quote with a draw price
func ThreeWayQuote(bookmaker string, home, draw, away float64) models.Quote {
	return QuoteFixture(func(q *models.Quote) {
		q.BookmakerID = bookmaker
		q.HomeOdds = home
		q.AwayOdds = away
		q.DrawOdds = models.Float64Ptr(draw)
	})
}

// EventFixture creates a test event starting a day after RefTime
func EventFixture(overrides ...func(*models.Event)) models.Event {
	e := models.Event{
		ID:           "event-1",
		SportKey:     "basketball_nba",
		SportTitle:   "NBA",
		HomeTeam:     "Boston Celtics",
		AwayTeam:     "Miami Heat",
		CommenceTime: RefTime.Add(24 * time.Hour),
		Quotes: []models.Quote{
			TwoWayQuote("Sportsbet", 1.50, 2.60),
			TwoWayQuote("TAB", 1.55, 2.45),
		},
	}

	for _, override := range overrides {
		override(&e)
	}

	return e
}

// OutcomeFixture creates a test outcome with sensible defaults
func OutcomeFixture(overrides ...func(*models.Outcome)) models.Outcome {
	o := models.Outcome{
		Sport:           "NBA",
		SportKey:        "basketball_nba",
		EventID:         "event-1",
		HomeTeam:        "Boston Celtics",
		AwayTeam:        "Miami Heat",
		SelectionLabel:  "Boston Celtics",
		SelectionKind:   models.SelectionHome,
		TrueProbability: 0.70,
		Edge:            0.02,
		BestOdds:        1.46,
		BestBookmaker:   "Sportsbet",
		BookmakerOdds:   map[string]float64{"Sportsbet": 1.46, "TAB": 1.44},
		CommenceTime:    RefTime.Add(24 * time.Hour),
	}

	for _, override := range overrides {
		override(&o)
	}

	return o
}

// LegOutcome creates an outcome for its own event with the given probability,
// edge and bookmaker prices
func LegOutcome(eventID string, p, edge float64, odds map[string]float64) models.Outcome {
	return OutcomeFixture(func(o *models.Outcome) {
		o.EventID = eventID
		o.SelectionLabel = "Home " + eventID
		o.TrueProbability = p
		o.Edge = edge
		o.BookmakerOdds = odds
	})
}
