package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishOrderAndWildcard(t *testing.T) {
	b := NewBus(nil)
	var seen []string
	b.Subscribe(PasteStarted, func(e Event) { seen = append(seen, "typed:"+string(e.Type)) })
	b.SubscribeAll(func(e Event) { seen = append(seen, "all:"+string(e.Type)) })

	b.Publish(context.Background(), NewEvent(PasteStarted, "c1", "ETH", nil))
	b.Publish(context.Background(), NewEvent(FetchStarted, "c2", "", nil))

	assert.Equal(t, []string{"typed:paste.started", "all:paste.started", "all:fetch.started"}, seen)
}

func TestPublishRecoversPanics(t *testing.T) {
	b := NewBus(nil)
	called := false
	b.SubscribeAll(func(Event) { panic("handler bug") })
	b.SubscribeAll(func(Event) { called = true })

	require.NotPanics(t, func() {
		b.Publish(context.Background(), NewEvent(PasteFailed, "c", "SOL", nil))
	})
	assert.True(t, called)
}

func TestPublishSkipsAfterCancel(t *testing.T) {
	b := NewBus(nil)
	called := false
	b.SubscribeAll(func(Event) { called = true })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b.Publish(ctx, NewEvent(PasteStored, "c", "ETH", nil))
	assert.False(t, called)
}

func TestHandlersGetIsolatedData(t *testing.T) {
	b := NewBus(nil)
	b.SubscribeAll(func(e Event) { e.Data[KeyError] = "mutated" })
	var got interface{}
	b.SubscribeAll(func(e Event) { got = e.Data[KeyError] })

	b.Publish(context.Background(), NewEvent(PasteFailed, "c", "ETH", map[EventDataKey]interface{}{KeyError: "orig"}))
	assert.Equal(t, "orig", got)
}

func TestNewCorrelationIDUnique(t *testing.T) {
	a, b := NewCorrelationID(), NewCorrelationID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
