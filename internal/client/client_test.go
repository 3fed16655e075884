package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/logger"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

type nopHub struct{}

func (nopHub) Unregister(*Client) {}

func newTestClient() *Client {
	return NewClient("c1", nil, nopHub{}, logger.Discard().WithComponent("test"))
}

func multiWithSports(t models.MultiType, sports ...string) models.GeneratedMulti {
	m := models.GeneratedMulti{Type: t}
	for _, s := range sports {
		m.Legs = append(m.Legs, models.Leg{Outcome: models.Outcome{Sport: s}})
	}
	return m
}

func TestMatchesFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter models.SubscriptionFilter
		multi  models.GeneratedMulti
		want   bool
	}{
		{"empty filter", models.SubscriptionFilter{}, multiWithSports(models.MultiTypeDime, "NBA"), true},
		{"type match", models.SubscriptionFilter{MultiTypes: []models.MultiType{models.MultiTypeTriple}}, multiWithSports(models.MultiTypeTriple), true},
		{"type mismatch", models.SubscriptionFilter{MultiTypes: []models.MultiType{models.MultiTypeTriple}}, multiWithSports(models.MultiTypeScore), false},
		{"any leg in sport", models.SubscriptionFilter{Sports: []string{"EPL"}}, multiWithSports(models.MultiTypeNickel, "NBA", "EPL"), true},
		{"no leg in sport", models.SubscriptionFilter{Sports: []string{"EPL"}}, multiWithSports(models.MultiTypeNickel, "NBA", "AFL"), false},
		{"sport filter on empty multi", models.SubscriptionFilter{Sports: []string{"EPL"}}, multiWithSports(models.MultiTypeNickel), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient()
			c.SetFilter(tt.filter)
			assert.Equal(t, tt.want, c.MatchesFilter(tt.multi))
		})
	}
}

func TestTrySend_FullBuffer(t *testing.T) {
	c := newTestClient()

	for i := 0; i < SendBufferSize; i++ {
		assert.True(t, c.TrySend(models.ServerMessage{Type: models.MessageTypeMultiUpdate}))
	}
	assert.False(t, c.TrySend(models.ServerMessage{Type: models.MessageTypeMultiUpdate}))
}

func TestHandleClientMessage(t *testing.T) {
	c := newTestClient()

	c.handleClientMessage(models.ClientMessage{
		Type:    models.MessageTypeSubscribe,
		Payload: models.SubscriptionFilter{MultiTypes: []models.MultiType{models.MultiTypeDime}},
	})
	assert.Equal(t, []models.MultiType{models.MultiTypeDime}, c.Filter().MultiTypes)

	c.handleClientMessage(models.ClientMessage{Type: models.MessageTypeUnsubscribe})
	assert.Empty(t, c.Filter().MultiTypes)

	c.handleClientMessage(models.ClientMessage{Type: models.MessageTypeHeartbeat})
	msg := <-c.Send
	assert.Equal(t, models.MessageTypeHeartbeat, msg.Type)
	stats, ok := msg.Payload.(models.ConnectionStats)
	assert.True(t, ok)
	assert.Equal(t, "c1", stats.ClientID)

	c.handleClientMessage(models.ClientMessage{Type: "bogus"})
	msg = <-c.Send
	assert.Equal(t, models.MessageTypeError, msg.Type)
	assert.Equal(t, "unknown_message_type", msg.Payload.(models.ErrorMessage).Code)
}

func TestClose_HeartbeatAfterCloseIsDropped(t *testing.T) {
	c := newTestClient()
	c.Close()
	c.Close()

	assert.NotPanics(t, func() {
		c.handleClientMessage(models.ClientMessage{Type: models.MessageTypeHeartbeat})
	})
	_, open := <-c.Send
	assert.False(t, open)
	assert.False(t, c.TrySend(models.ServerMessage{Type: models.MessageTypeMultiUpdate}))
}
