// Package multi builds fixed-size multis from ranked outcomes.
package multi

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/oddsmath"
)

// NoBookmaker is the bookmaker of a multi with no legs
const NoBookmaker = "None"

// Config tunes the generator
type Config struct {
	// OneLegPerEvent skips an outcome whose event already has a leg in the multi
	OneLegPerEvent bool
}

// DefaultConfig returns the default generator settings
func DefaultConfig() Config {
	return Config{OneLegPerEvent: true}
}

// Generator builds multis. It holds no state between calls.
type Generator struct {
	config Config
}

// NewGenerator creates a generator
func NewGenerator(config Config) *Generator {
	return &Generator{config: config}
}

// Generate builds a multi of the given type from outcomes already ranked with
// Rank. It takes the first Size() outcomes (one per event when configured),
// prices them at a single bookmaker, and never fails: shortfalls and coverage
// fallbacks are reported in Warning.
//
// SuccessProbability is the product of leg probabilities, which treats legs
// as independent.
func (g *Generator) Generate(ranked []models.Outcome, multiType models.MultiType) models.GeneratedMulti {
	size := multiType.Size()
	selected := g.pick(ranked, size)

	if len(selected) == 0 {
		return emptyMulti(multiType, "No qualifying outcomes available")
	}

	var warnings []string
	if len(selected) < size {
		warnings = append(warnings, shortfall(len(selected)))
	}

	sel, ok := selectBookmaker(selected)
	if !ok {
		return emptyMulti(multiType, strings.Join(append(warnings, "No bookmakers available"), "; "))
	}

	legs := make([]models.Leg, len(selected))
	totalOdds := 1.0
	success := 1.0
	averaged := 0
	for i, o := range selected {
		legs[i] = models.Leg{Outcome: o, Odds: sel.odds[i], AverageUsed: sel.averaged[i]}
		totalOdds *= sel.odds[i]
		success *= o.TrueProbability
		if sel.averaged[i] {
			averaged++
		}
	}

	if sel.fallback {
		warnings = append(warnings, fmt.Sprintf("No bookmaker covers every leg; %s used with average odds on %d %s", sel.bookmaker, averaged, plural(averaged, "leg")))
	}

	return models.GeneratedMulti{
		Type:               multiType,
		Legs:               legs,
		Bookmaker:          sel.bookmaker,
		TotalOdds:          totalOdds,
		SuccessProbability: success,
		PotentialPayout:    totalOdds,
		ExpectedValue:      oddsmath.CalculateEdge(success, totalOdds),
		KellyFraction:      oddsmath.KellyFraction(success, totalOdds),
		Degraded:           sel.fallback,
		Warning:            strings.Join(warnings, "; "),
	}
}

// GenerateAll builds one multi of every type from the same ranked outcomes
func (g *Generator) GenerateAll(ranked []models.Outcome) models.MultiSet {
	return models.MultiSet{
		Triple: g.Generate(ranked, models.MultiTypeTriple),
		Nickel: g.Generate(ranked, models.MultiTypeNickel),
		Dime:   g.Generate(ranked, models.MultiTypeDime),
		Score:  g.Generate(ranked, models.MultiTypeScore),
	}
}

// Response ranks outcomes and builds the full multi generator result
func (g *Generator) Response(outcomes []models.Outcome, minProbability float64, now time.Time) models.MultiResponse {
	ranked := Rank(outcomes, minProbability)

	return models.MultiResponse{
		ID:                     uuid.NewString(),
		GeneratedAt:            now,
		MinProbability:         minProbability,
		Multis:                 g.GenerateAll(ranked),
		TotalOutcomesAvailable: len(ranked),
		Outcomes:               ranked,
	}
}

func (g *Generator) pick(ranked []models.Outcome, size int) []models.Outcome {
	if !g.config.OneLegPerEvent {
		if len(ranked) > size {
			return ranked[:size]
		}
		return ranked
	}

	used := make(map[string]bool)
	picked := make([]models.Outcome, 0, size)
	for _, o := range ranked {
		if len(picked) == size {
			break
		}
		if used[o.EventID] {
			continue
		}
		used[o.EventID] = true
		picked = append(picked, o)
	}
	return picked
}

func emptyMulti(multiType models.MultiType, warning string) models.GeneratedMulti {
	return models.GeneratedMulti{
		Type:      multiType,
		Legs:      []models.Leg{},
		Bookmaker: NoBookmaker,
		Warning:   warning,
	}
}

func shortfall(n int) string {
	return fmt.Sprintf("Only %d %s available", n, plural(n, "leg"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
