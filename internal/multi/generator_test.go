package multi

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

func leg(id string, p, edge float64, odds map[string]float64) models.Outcome {
	return testutil.LegOutcome(id, p, edge, odds)
}

func manyOutcomes(n int) []models.Outcome {
	outcomes := make([]models.Outcome, n)
	for i := range outcomes {
		outcomes[i] = leg(fmt.Sprintf("event-%d", i), 0.70, 0.10-float64(i)*0.001, map[string]float64{"Sportsbet": 1.40, "TAB": 1.38})
	}
	return outcomes
}

func TestRank_FiltersAndSortsStable(t *testing.T) {
	outcomes := []models.Outcome{
		leg("a", 0.70, 0.01, nil),
		leg("b", 0.60, 0.20, nil), // below threshold
		leg("c", 0.80, 0.05, nil),
		leg("d", 0.65, 0.30, nil), // not strictly above
		leg("e", 0.90, 0.05, nil),
		leg("f", 0.75, 0.02, nil),
	}

	ranked := Rank(outcomes, DefaultMinProbability)

	ids := make([]string, len(ranked))
	for i, o := range ranked {
		ids[i] = o.EventID
	}
	assert.Equal(t, []string{"c", "e", "f", "a"}, ids)
}

func TestGenerate_FullCoveragePicksHighestProduct(t *testing.T) {
	ranked := []models.Outcome{
		leg("e1", 0.70, 0.05, map[string]float64{"Sportsbet": 1.45, "TAB": 1.50, "Neds": 1.60}),
		leg("e2", 0.75, 0.04, map[string]float64{"Sportsbet": 1.35, "TAB": 1.30, "Neds": 1.32}),
		leg("e3", 0.80, 0.03, map[string]float64{"Sportsbet": 1.28, "TAB": 1.30}),
	}

	got := NewGenerator(DefaultConfig()).Generate(ranked, models.MultiTypeTriple)

	require.Len(t, got.Legs, 3)
	assert.Equal(t, "TAB", got.Bookmaker) // Neds does not price e3
	assert.InDelta(t, 1.50*1.30*1.30, got.TotalOdds, 1e-9)
	assert.Equal(t, got.TotalOdds, got.PotentialPayout)
	assert.InDelta(t, 0.70*0.75*0.80, got.SuccessProbability, 1e-12)
	assert.InDelta(t, got.SuccessProbability*got.TotalOdds-1, got.ExpectedValue, 1e-12)
	assert.False(t, got.Degraded)
	assert.Empty(t, got.Warning)
	assert.Equal(t, []float64{1.50, 1.30, 1.30}, []float64{got.Legs[0].Odds, got.Legs[1].Odds, got.Legs[2].Odds})
}

func TestGenerate_FallbackUsesMostCommonBookmakerAndAverages(t *testing.T) {
	ranked := []models.Outcome{
		leg("e1", 0.70, 0.05, map[string]float64{"Sportsbet": 1.40, "TAB": 1.50}),
		leg("e2", 0.75, 0.04, map[string]float64{"Sportsbet": 1.30}),
		leg("e3", 0.80, 0.03, map[string]float64{"TAB": 1.20, "Neds": 1.30}),
	}

	got := NewGenerator(DefaultConfig()).Generate(ranked, models.MultiTypeTriple)

	require.Len(t, got.Legs, 3)
	// Sportsbet and TAB both quote two legs; Sportsbet sorts first
	assert.Equal(t, "Sportsbet", got.Bookmaker)
	assert.True(t, got.Degraded)
	assert.True(t, got.Legs[2].AverageUsed)
	assert.InDelta(t, 1.25, got.Legs[2].Odds, 1e-12)
	assert.InDelta(t, 1.40*1.30*1.25, got.TotalOdds, 1e-9)
	assert.Contains(t, got.Warning, "average odds")
}

func TestGenerate_Shortfall(t *testing.T) {
	ranked := manyOutcomes(2)

	got := NewGenerator(DefaultConfig()).Generate(ranked, models.MultiTypeTriple)

	assert.Len(t, got.Legs, 2)
	assert.Equal(t, "Only 2 legs available", got.Warning)
	assert.Equal(t, "Sportsbet", got.Bookmaker)
}

func TestGenerate_SingleLegWarning(t *testing.T) {
	got := NewGenerator(DefaultConfig()).Generate(manyOutcomes(1), models.MultiTypeNickel)
	assert.Equal(t, "Only 1 leg available", got.Warning)
}

func TestGenerate_NoOutcomes(t *testing.T) {
	got := NewGenerator(DefaultConfig()).Generate(nil, models.MultiTypeDime)

	assert.Empty(t, got.Legs)
	assert.NotNil(t, got.Legs)
	assert.Equal(t, NoBookmaker, got.Bookmaker)
	assert.Equal(t, 0.0, got.TotalOdds)
	assert.NotEmpty(t, got.Warning)
}

func TestGenerate_NoBookmakers(t *testing.T) {
	ranked := []models.Outcome{leg("e1", 0.7, 0.1, map[string]float64{})}

	got := NewGenerator(DefaultConfig()).Generate(ranked, models.MultiTypeTriple)

	assert.Empty(t, got.Legs)
	assert.Equal(t, NoBookmaker, got.Bookmaker)
	assert.Equal(t, 0.0, got.TotalOdds)
	assert.Contains(t, got.Warning, "No bookmakers available")
}

func TestGenerate_LegCountProperty(t *testing.T) {
	g := NewGenerator(DefaultConfig())

	for _, available := range []int{0, 1, 3, 4, 9, 12, 25} {
		ranked := manyOutcomes(available)
		for _, mt := range models.AllMultiTypes {
			got := g.Generate(ranked, mt)

			want := mt.Size()
			if available < want {
				want = available
			}
			assert.Len(t, got.Legs, want, "%s with %d outcomes", mt, available)

			if want > 0 {
				product := 1.0
				for _, l := range got.Legs {
					product *= l.TrueProbability
				}
				assert.InDelta(t, product, got.SuccessProbability, 1e-15)
			}
		}
	}
}

func TestGenerate_KeepsRankOrder(t *testing.T) {
	ranked := manyOutcomes(6)

	got := NewGenerator(DefaultConfig()).Generate(ranked, models.MultiTypeNickel)

	for i, l := range got.Legs {
		assert.Equal(t, ranked[i].EventID, l.EventID)
	}
}

func TestGenerate_OneLegPerEvent(t *testing.T) {
	odds := map[string]float64{"TAB": 1.40}
	home := leg("e1", 0.70, 0.09, odds)
	away := leg("e1", 0.70, 0.08, odds)
	away.SelectionKind = models.SelectionAway
	other := leg("e2", 0.70, 0.07, odds)
	ranked := []models.Outcome{home, away, other}

	got := NewGenerator(DefaultConfig()).Generate(ranked, models.MultiTypeTriple)
	require.Len(t, got.Legs, 2)
	assert.Equal(t, "e1", got.Legs[0].EventID)
	assert.Equal(t, "e2", got.Legs[1].EventID)

	unguarded := NewGenerator(Config{OneLegPerEvent: false}).Generate(ranked, models.MultiTypeTriple)
	assert.Len(t, unguarded.Legs, 3)
}

func TestGenerateAll(t *testing.T) {
	set := NewGenerator(DefaultConfig()).GenerateAll(manyOutcomes(12))

	assert.Len(t, set.Triple.Legs, 3)
	assert.Len(t, set.Nickel.Legs, 5)
	assert.Len(t, set.Dime.Legs, 10)
	assert.Len(t, set.Score.Legs, 12)
	assert.Equal(t, "Only 12 legs available", set.Score.Warning)

	m, ok := set.ByType(models.MultiTypeDime)
	require.True(t, ok)
	assert.Equal(t, models.MultiTypeDime, m.Type)
}

func TestResponse(t *testing.T) {
	outcomes := append(manyOutcomes(4), leg("low", 0.50, 0.50, map[string]float64{"TAB": 2.5}))

	resp := NewGenerator(DefaultConfig()).Response(outcomes, DefaultMinProbability, testutil.RefTime)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, testutil.RefTime, resp.GeneratedAt)
	assert.Equal(t, 4, resp.TotalOutcomesAvailable)
	assert.Len(t, resp.Outcomes, 4)
	assert.Len(t, resp.Multis.Triple.Legs, 3)
}
