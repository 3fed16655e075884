package theoddsapi

import "github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"

const (
	h2hMarket = "h2h"
	drawName  = "Draw"
)

// ToEvent maps a wire event to the domain model. Each bookmaker's h2h prices
// are matched to the home and away team names and "Draw". Bookmakers without
// an h2h market or without both team prices are dropped.
func ToEvent(e Event) models.Event {
	event := models.Event{
		ID:           e.ID,
		SportKey:     e.SportKey,
		SportTitle:   e.SportTitle,
		HomeTeam:     e.HomeTeam,
		AwayTeam:     e.AwayTeam,
		CommenceTime: e.CommenceTime,
		Quotes:       make([]models.Quote, 0, len(e.Bookmakers)),
	}

	for _, b := range e.Bookmakers {
		quote, ok := toQuote(b, e.HomeTeam, e.AwayTeam)
		if ok {
			event.Quotes = append(event.Quotes, quote)
		}
	}

	return event
}

func toQuote(b Bookmaker, homeTeam, awayTeam string) (models.Quote, bool) {
	for _, m := range b.Markets {
		if m.Key != h2hMarket {
			continue
		}

		prices := make(map[string]float64, len(m.Outcomes))
		for _, o := range m.Outcomes {
			prices[o.Name] = o.Price
		}

		home, okHome := prices[homeTeam]
		away, okAway := prices[awayTeam]
		if !okHome || !okAway {
			return models.Quote{}, false
		}

		lastUpdate := m.LastUpdate
		if lastUpdate.IsZero() {
			lastUpdate = b.LastUpdate
		}

		quote := models.Quote{
			BookmakerID: b.Title,
			HomeOdds:    home,
			AwayOdds:    away,
			LastUpdate:  lastUpdate,
		}
		if draw, ok := prices[drawName]; ok {
			quote.DrawOdds = models.Float64Ptr(draw)
		}
		return quote, true
	}

	return models.Quote{}, false
}
