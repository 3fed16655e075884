// Package aggregator combines per-provider normalized probabilities for a
// match into a single consensus with a tip.
package aggregator

import (
	"errors"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/oddsmath"
)

// ErrEmptyInput is returned when there are no snapshots to aggregate
var ErrEmptyInput = errors.New("no snapshots to aggregate")

// Aggregate computes the weighted consensus of the snapshots.
//
// Providers missing from weights count as weight 0. When no provider has a
// positive weight the plain mean is used instead. The result is renormalized
// to sum to 1. For three-way markets a snapshot without a draw price counts
// its draw probability as 0.
func Aggregate(snapshots []models.ProviderSnapshot, weights models.WeightMap, marketType models.MarketType) (*models.AggregatedOdds, error) {
	if len(snapshots) == 0 {
		return nil, ErrEmptyInput
	}

	threeWay := marketType == models.MarketTypeThreeWay

	var home, draw, away, totalWeight float64
	for _, s := range snapshots {
		w := weights[s.ProviderID]
		if w <= 0 {
			continue
		}
		home += s.HomeProb * w
		away += s.AwayProb * w
		if threeWay {
			draw += drawOf(s) * w
		}
		totalWeight += w
	}

	if totalWeight == 0 {
		home, draw, away = 0, 0, 0
		for _, s := range snapshots {
			home += s.HomeProb
			away += s.AwayProb
			if threeWay {
				draw += drawOf(s)
			}
		}
		totalWeight = float64(len(snapshots))
	}

	home /= totalWeight
	away /= totalWeight
	draw /= totalWeight

	total := home + draw + away
	if total <= 0 {
		return nil, fmt.Errorf("%w: aggregated probabilities sum to %v", oddsmath.ErrDegenerateMarket, total)
	}

	result := &models.AggregatedOdds{
		HomeProb:              home / total,
		AwayProb:              away / total,
		ContributingProviders: countProviders(snapshots),
		LastUpdated:           latestUpdate(snapshots),
	}
	if threeWay {
		result.DrawProb = models.Float64Ptr(draw / total)
	}

	result.Tip, result.Confidence = Tip(result.HomeProb, result.AwayProb, result.DrawProb)

	return result, nil
}

// Tip picks the selection with the highest probability. Exact ties resolve in
// the order home, draw, away.
func Tip(home, away float64, draw *float64) (models.SelectionKind, float64) {
	tip, confidence := models.SelectionHome, home

	if draw != nil && *draw > confidence {
		tip, confidence = models.SelectionDraw, *draw
	}

	if away > confidence {
		tip, confidence = models.SelectionAway, away
	}

	return tip, confidence
}

// FilterFresh drops snapshots last updated more than maxAge before now
func FilterFresh(snapshots []models.ProviderSnapshot, now time.Time, maxAge time.Duration) []models.ProviderSnapshot {
	cutoff := now.Add(-maxAge)

	fresh := make([]models.ProviderSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s.LastUpdate.Before(cutoff) {
			continue
		}
		fresh = append(fresh, s)
	}
	return fresh
}

// LatestPerProvider keeps only the most recent snapshot of each provider, in
// order of each provider's first appearance
func LatestPerProvider(snapshots []models.ProviderSnapshot) []models.ProviderSnapshot {
	index := make(map[string]int)
	latest := make([]models.ProviderSnapshot, 0, len(snapshots))

	for _, s := range snapshots {
		i, seen := index[s.ProviderID]
		if !seen {
			index[s.ProviderID] = len(latest)
			latest = append(latest, s)
			continue
		}
		if s.LastUpdate.After(latest[i].LastUpdate) {
			latest[i] = s
		}
	}

	return latest
}

// ProviderIDs returns the distinct provider ids of the snapshots in order
func ProviderIDs(snapshots []models.ProviderSnapshot) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(snapshots))
	for _, s := range snapshots {
		if seen[s.ProviderID] {
			continue
		}
		seen[s.ProviderID] = true
		ids = append(ids, s.ProviderID)
	}
	return ids
}

func drawOf(s models.ProviderSnapshot) float64 {
	if s.DrawProb == nil {
		return 0
	}
	return *s.DrawProb
}

func countProviders(snapshots []models.ProviderSnapshot) int {
	return len(ProviderIDs(snapshots))
}

func latestUpdate(snapshots []models.ProviderSnapshot) time.Time {
	var latest time.Time
	for _, s := range snapshots {
		if s.LastUpdate.After(latest) {
			latest = s.LastUpdate
		}
	}
	return latest
}
