package aggregator

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/oddsmath"
)

// SnapshotFromQuote converts a bookmaker quote into margin-free probabilities
// by proportional normalization. The draw is only used for three-way markets.
func SnapshotFromQuote(q models.Quote, marketType models.MarketType) (models.ProviderSnapshot, error) {
	home, err := oddsmath.DecimalToImpliedProbability(q.HomeOdds)
	if err != nil {
		return models.ProviderSnapshot{}, fmt.Errorf("%s home: %w", q.BookmakerID, err)
	}
	away, err := oddsmath.DecimalToImpliedProbability(q.AwayOdds)
	if err != nil {
		return models.ProviderSnapshot{}, fmt.Errorf("%s away: %w", q.BookmakerID, err)
	}

	snapshot := models.ProviderSnapshot{ProviderID: q.BookmakerID, LastUpdate: q.LastUpdate}

	if marketType == models.MarketTypeThreeWay && q.HasDraw() {
		draw, err := oddsmath.DecimalToImpliedProbability(*q.DrawOdds)
		if err != nil {
			return models.ProviderSnapshot{}, fmt.Errorf("%s draw: %w", q.BookmakerID, err)
		}

		fairHome, fairDraw, fairAway, err := oddsmath.NormalizeThreeWay(home, draw, away)
		if err != nil {
			return models.ProviderSnapshot{}, err
		}
		snapshot.HomeProb, snapshot.AwayProb = fairHome, fairAway
		snapshot.DrawProb = models.Float64Ptr(fairDraw)
		return snapshot, nil
	}

	fairHome, fairAway, err := oddsmath.NormalizeTwoWay(home, away)
	if err != nil {
		return models.ProviderSnapshot{}, err
	}
	snapshot.HomeProb, snapshot.AwayProb = fairHome, fairAway

	return snapshot, nil
}

// QuoteOdds returns the quote's prices in market order (home, [draw,] away)
func QuoteOdds(q models.Quote, marketType models.MarketType) []float64 {
	if marketType == models.MarketTypeThreeWay && q.HasDraw() {
		return []float64{q.HomeOdds, *q.DrawOdds, q.AwayOdds}
	}
	return []float64{q.HomeOdds, q.AwayOdds}
}
