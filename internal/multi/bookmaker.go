package multi

import (
	"sort"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

// selection is the bookmaker chosen to price a set of legs
type selection struct {
	bookmaker string
	odds      []float64 // per leg, in leg order
	averaged  []bool    // leg priced with the bookmaker average
	fallback  bool
}

// bookmakers returns every bookmaker quoting any of the outcomes, sorted
func bookmakers(outcomes []models.Outcome) []string {
	seen := make(map[string]bool)
	var names []string
	for _, o := range outcomes {
		for name := range o.BookmakerOdds {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// selectBookmaker picks the bookmaker that prices every outcome above 1.0
// with the largest product of odds. Ties go to the name that sorts first.
//
// When no bookmaker covers every outcome, the bookmaker quoting the most
// outcomes is used and legs it does not price fall back to the average of
// that outcome's quoted odds. Returns false when no bookmaker quotes anything.
func selectBookmaker(outcomes []models.Outcome) (selection, bool) {
	names := bookmakers(outcomes)
	if len(outcomes) == 0 || len(names) == 0 {
		return selection{}, false
	}

	best := ""
	bestTotal := 0.0
	for _, name := range names {
		total, covered := coverage(outcomes, name)
		if covered && total > bestTotal {
			best, bestTotal = name, total
		}
	}

	if best != "" {
		sel := selection{bookmaker: best, odds: make([]float64, len(outcomes)), averaged: make([]bool, len(outcomes))}
		for i, o := range outcomes {
			sel.odds[i] = o.BookmakerOdds[best]
		}
		return sel, true
	}

	return fallbackSelection(outcomes, names), true
}

// coverage reports the product of the bookmaker's odds and whether it priced
// every outcome above 1.0
func coverage(outcomes []models.Outcome, bookmaker string) (float64, bool) {
	total := 1.0
	for _, o := range outcomes {
		odds, ok := o.BookmakerOdds[bookmaker]
		if !ok || odds <= 1.0 {
			return 0, false
		}
		total *= odds
	}
	return total, true
}

func fallbackSelection(outcomes []models.Outcome, names []string) selection {
	counts := make(map[string]int, len(names))
	for _, o := range outcomes {
		for name := range o.BookmakerOdds {
			counts[name]++
		}
	}

	common, maxCount := "", 0
	for _, name := range names {
		if counts[name] > maxCount {
			common, maxCount = name, counts[name]
		}
	}

	sel := selection{
		bookmaker: common,
		odds:      make([]float64, len(outcomes)),
		averaged:  make([]bool, len(outcomes)),
		fallback:  true,
	}
	for i, o := range outcomes {
		if odds, ok := o.BookmakerOdds[common]; ok && odds > 1.0 {
			sel.odds[i] = odds
			continue
		}
		sel.odds[i] = o.AverageOdds()
		sel.averaged[i] = true
	}

	return sel
}
