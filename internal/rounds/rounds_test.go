package rounds

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

var base = time.Date(2026, time.March, 5, 8, 30, 0, 0, time.UTC)

func matchesAt(offsets ...time.Duration) []models.Match {
	matches := make([]models.Match, len(offsets))
	for i, off := range offsets {
		matches[i] = models.Match{ID: fmt.Sprintf("m%d", i), CommenceTime: base.Add(off)}
	}
	return matches
}

const day = 24 * time.Hour

func TestPartition_Empty(t *testing.T) {
	assert.Empty(t, Partition(nil))
}

func TestPartition_GroupsByGap(t *testing.T) {
	// Two weekend rounds a week apart, given out of order
	matches := matchesAt(9*day, 0, 2*day, day, 8*day, 10*day)

	rounds := Partition(matches)

	require.Len(t, rounds, 2)
	assert.Equal(t, 1, rounds[0].RoundNumber)
	assert.Equal(t, base, rounds[0].StartDate)
	assert.Equal(t, base.Add(2*day), rounds[0].EndDate)
	assert.Equal(t, 3, rounds[0].MatchCount)
	assert.Equal(t, "Mar 5 - Mar 7", rounds[0].Label)

	assert.Equal(t, 2, rounds[1].RoundNumber)
	assert.Equal(t, base.Add(8*day), rounds[1].StartDate)
	assert.Equal(t, base.Add(10*day), rounds[1].EndDate)
	assert.Equal(t, 3, rounds[1].MatchCount)
}

func TestPartition_GapBoundary(t *testing.T) {
	exactly := Partition(matchesAt(0, 5*day))
	assert.Len(t, exactly, 1, "a gap of exactly five days stays in the round")

	over := Partition(matchesAt(0, 5*day+time.Minute))
	assert.Len(t, over, 2)
}

func TestPartition_ChainedGapsStayTogether(t *testing.T) {
	// Each gap is within the limit even though the span is not
	rounds := Partition(matchesAt(0, 4*day, 8*day, 12*day))
	require.Len(t, rounds, 1)
	assert.Equal(t, 4, rounds[0].MatchCount)
}

func TestPartition_SingleDayLabel(t *testing.T) {
	rounds := Partition(matchesAt(0, 3*time.Hour))
	require.Len(t, rounds, 1)
	assert.Equal(t, "Mar 5", rounds[0].Label)
}

func TestAssignAndFilter(t *testing.T) {
	matches := matchesAt(0, day, 10*day, 11*day)
	rounds := Partition(matches)

	Assign(matches, rounds)
	assert.Equal(t, []int{1, 1, 2, 2}, []int{matches[0].Round, matches[1].Round, matches[2].Round, matches[3].Round})

	second := Filter(matches, rounds, 2)
	require.Len(t, second, 2)
	assert.Equal(t, "m2", second[0].ID)

	assert.Empty(t, Filter(matches, rounds, 7))
}
