package publisher

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

func TestPublish(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	resp := models.MultiResponse{
		ID:                     "gen-1",
		GeneratedAt:            testutil.RefTime,
		MinProbability:         0.65,
		TotalOutcomesAvailable: 3,
		Multis: models.MultiSet{
			Triple: models.GeneratedMulti{Type: models.MultiTypeTriple, Bookmaker: "TAB", TotalOdds: 2.2},
			Nickel: models.GeneratedMulti{Type: models.MultiTypeNickel, Bookmaker: "TAB", Warning: "Only 3 legs available"},
			Dime:   models.GeneratedMulti{Type: models.MultiTypeDime, Bookmaker: "TAB"},
			Score:  models.GeneratedMulti{Type: models.MultiTypeScore, Bookmaker: "TAB"},
		},
	}

	require.NoError(t, NewStreamPublisher(client).Publish(ctx, resp))

	entries, err := client.XRange(ctx, GlobalStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gen-1", entries[0].Values["generation_id"])
	assert.Equal(t, "2025-03-01T10:00:00Z", entries[0].Values["generated_at"])

	var set models.MultiSet
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["multis"].(string)), &set))
	assert.Equal(t, 2.2, set.Triple.TotalOdds)

	for _, mt := range models.AllMultiTypes {
		entries, err := client.XRange(ctx, TypeStream(mt), "-", "+").Result()
		require.NoError(t, err)
		require.Len(t, entries, 1, mt)

		var m models.GeneratedMulti
		require.NoError(t, json.Unmarshal([]byte(entries[0].Values["multi"].(string)), &m))
		assert.Equal(t, mt, m.Type)
	}
}

func TestTypeStream(t *testing.T) {
	assert.Equal(t, "multis.generated.dime", TypeStream(models.MultiTypeDime))
}
