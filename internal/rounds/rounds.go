// Package rounds groups a sport's matches into rounds by the gaps between
// kick-off times.
package rounds

import (
	"sort"
	"time"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

// MaxGap is the largest gap between consecutive matches of one round
const MaxGap = 5 * 24 * time.Hour

const labelLayout = "Jan 2"

// Partition sorts matches by commence time and starts a new round whenever
// the gap to the previous match exceeds MaxGap. Each round spans the first to
// the last commence time of its matches. Rounds are numbered from 1.
func Partition(matches []models.Match) []models.RoundDefinition {
	if len(matches) == 0 {
		return []models.RoundDefinition{}
	}

	times := make([]time.Time, len(matches))
	for i, m := range matches {
		times[i] = m.CommenceTime
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	var rounds []models.RoundDefinition
	current := models.RoundDefinition{RoundNumber: 1, StartDate: times[0], EndDate: times[0], MatchCount: 1}

	for _, t := range times[1:] {
		if t.Sub(current.EndDate) > MaxGap {
			current.Label = Label(current.StartDate, current.EndDate)
			rounds = append(rounds, current)
			current = models.RoundDefinition{RoundNumber: current.RoundNumber + 1, StartDate: t, EndDate: t}
		}
		current.EndDate = t
		current.MatchCount++
	}

	current.Label = Label(current.StartDate, current.EndDate)
	return append(rounds, current)
}

// Label formats a round window as "Mar 1" or "Mar 1 - Mar 4" (UTC dates)
func Label(start, end time.Time) string {
	s := start.UTC().Format(labelLayout)
	e := end.UTC().Format(labelLayout)
	if s == e {
		return s
	}
	return s + " - " + e
}

// Assign sets each match's Round from the round whose window contains it
func Assign(matches []models.Match, rounds []models.RoundDefinition) {
	for i := range matches {
		for _, r := range rounds {
			if r.Contains(matches[i].CommenceTime) {
				matches[i].Round = r.RoundNumber
				break
			}
		}
	}
}

// Filter returns the matches in round number n, keeping their order
func Filter(matches []models.Match, rounds []models.RoundDefinition, n int) []models.Match {
	var window *models.RoundDefinition
	for i := range rounds {
		if rounds[i].RoundNumber == n {
			window = &rounds[i]
			break
		}
	}

	filtered := []models.Match{}
	if window == nil {
		return filtered
	}
	for _, m := range matches {
		if window.Contains(m.CommenceTime) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
