package multi

import (
	"sort"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

// DefaultMinProbability is the true probability an outcome must exceed to be
// considered for a multi
const DefaultMinProbability = 0.65

// Rank keeps outcomes whose true probability is strictly above minProbability
// and orders them by edge, highest first. Equal edges keep their input order.
func Rank(outcomes []models.Outcome, minProbability float64) []models.Outcome {
	ranked := make([]models.Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.TrueProbability > minProbability {
			ranked = append(ranked, o)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Edge > ranked[j].Edge
	})

	return ranked
}
