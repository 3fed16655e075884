package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/client"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/logger"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := NewHub(logger.Discard().WithComponent("test"))
	go h.Run(ctx)
	return h
}

func newClient(h *Hub, id string) *client.Client {
	return client.NewClient(id, nil, h, logger.Discard().WithComponent("test"))
}

func receive(t *testing.T, c *client.Client) models.ServerMessage {
	t.Helper()
	select {
	case msg, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return models.ServerMessage{}
	}
}

func generation() models.MultiResponse {
	leg := models.Leg{Outcome: testutil.OutcomeFixture(), Odds: 1.46}
	return models.MultiResponse{
		ID:          "gen-1",
		GeneratedAt: testutil.RefTime,
		Multis: models.MultiSet{
			Triple: models.GeneratedMulti{Type: models.MultiTypeTriple, Legs: []models.Leg{leg}},
			Nickel: models.GeneratedMulti{Type: models.MultiTypeNickel, Legs: []models.Leg{leg}},
			Dime:   models.GeneratedMulti{Type: models.MultiTypeDime, Legs: []models.Leg{leg}},
			Score:  models.GeneratedMulti{Type: models.MultiTypeScore, Legs: []models.Leg{leg}},
		},
	}
}

func TestBroadcastGeneration_RespectsFilters(t *testing.T) {
	h := startHub(t)

	all := newClient(h, "all")
	dimeOnly := newClient(h, "dime")
	dimeOnly.SetFilter(models.SubscriptionFilter{MultiTypes: []models.MultiType{models.MultiTypeDime}})
	soccer := newClient(h, "soccer")
	soccer.SetFilter(models.SubscriptionFilter{Sports: []string{"EPL"}})

	h.Register(all)
	h.Register(dimeOnly)
	h.Register(soccer)
	require.Eventually(t, func() bool { return h.ClientCount() == 3 }, time.Second, 5*time.Millisecond)

	h.BroadcastGeneration(generation())

	for _, want := range models.AllMultiTypes {
		msg := receive(t, all)
		assert.Equal(t, models.MessageTypeMultiUpdate, msg.Type)
		update := msg.Payload.(models.MultiUpdate)
		assert.Equal(t, want, update.Multi.Type)
		assert.Equal(t, "gen-1", update.GenerationID)
	}

	msg := receive(t, dimeOnly)
	assert.Equal(t, models.MultiTypeDime, msg.Payload.(models.MultiUpdate).Multi.Type)

	assert.Eventually(t, func() bool { return len(h.broadcast) == 0 }, time.Second, 5*time.Millisecond)
	assert.Len(t, dimeOnly.Send, 0)
	assert.Len(t, soccer.Send, 0)
}

func TestSlowClientIsDisconnected(t *testing.T) {
	h := startHub(t)

	slow := newClient(h, "slow")
	for i := 0; i < client.SendBufferSize; i++ {
		require.True(t, slow.TrySend(models.ServerMessage{}))
	}

	h.Register(slow)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Broadcast(models.MultiUpdate{Multi: models.GeneratedMulti{Type: models.MultiTypeTriple}})

	assert.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestUnregisterAndMetrics(t *testing.T) {
	h := startHub(t)

	c := newClient(h, "c1")
	h.Register(c)
	h.Unregister(c)

	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-c.Send
	assert.False(t, open)

	metrics := h.Metrics()
	assert.Equal(t, int64(1), metrics["total_connections"])
	assert.Equal(t, 0, metrics["active_clients"])
}

func TestRun_ShutdownClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(logger.Discard().WithComponent("test"))

	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	c := newClient(h, "c1")
	h.Register(c)
	cancel()
	<-stopped

	_, open := <-c.Send
	assert.False(t, open)

	// no-op once the hub has stopped
	h.Unregister(c)
}

func TestDroppedClient_RepliesAfterCloseAreDiscarded(t *testing.T) {
	h := startHub(t)

	slow := newClient(h, "slow")
	for i := 0; i < client.SendBufferSize; i++ {
		require.True(t, slow.TrySend(models.ServerMessage{}))
	}

	h.Register(slow)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Broadcast(models.MultiUpdate{Multi: models.GeneratedMulti{Type: models.MultiTypeTriple}})
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	for range slow.Send {
	}

	heartbeat := models.ServerMessage{Type: models.MessageTypeHeartbeat, Timestamp: time.Now()}
	assert.NotPanics(t, func() {
		assert.False(t, slow.TrySend(heartbeat))
	})
	assert.NotPanics(t, slow.Close)
}
