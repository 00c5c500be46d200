package notify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realm-exchange/orderbook/internal/model"
)

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	n := New()
	sub1 := n.Subscribe(1)
	sub2 := n.Subscribe(1)
	defer n.Unsubscribe(sub1)
	defer n.Unsubscribe(sub2)

	n.Publish(Event{Type: "order_event", Symbol: "SYM1"})

	e1 := <-sub1.Events()
	e2 := <-sub2.Events()
	assert.Equal(t, "SYM1", e1.Symbol)
	assert.Equal(t, "SYM1", e2.Symbol)
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	n := New()
	sub := n.Subscribe(1)
	defer n.Unsubscribe(sub)

	n.Publish(Event{Symbol: "first"})
	n.Publish(Event{Symbol: "second"}) // buffer full, dropped rather than blocking

	e := <-sub.Events()
	assert.Equal(t, "first", e.Symbol)
}

func TestUnsubscribeRemovesAndCloses(t *testing.T) {
	n := New()
	sub := n.Subscribe(1)
	require.Equal(t, 1, n.Count())

	n.Unsubscribe(sub)
	assert.Equal(t, 0, n.Count())

	_, ok := <-sub.Events()
	assert.False(t, ok)
}

func TestEventMarshalsSideAndKindAsWireStrings(t *testing.T) {
	event := Event{
		Type:   "order_event",
		Symbol: "SYM1",
		Order: model.Order{
			ID:   "order-1",
			Side: model.Buy,
			Kind: model.Limit,
		},
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"side":"buy"`)
	assert.Contains(t, string(data), `"kind":"limit"`)
	assert.NotContains(t, string(data), `"side":0`)
	assert.NotContains(t, string(data), `"kind":0`)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, model.Buy, decoded.Order.Side)
	assert.Equal(t, model.Limit, decoded.Order.Kind)
}

func TestPublishToleratesConcurrentUnsubscribe(t *testing.T) {
	n := New()
	sub := n.Subscribe(4)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			n.Publish(Event{Symbol: "SYM1"})
		}
		close(done)
	}()
	n.Unsubscribe(sub)
	<-done
}
