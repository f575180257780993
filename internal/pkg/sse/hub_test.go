package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyThatUser(t *testing.T) {
	hub := NewHub()

	alice, cleanupAlice := hub.Subscribe("alice")
	defer cleanupAlice()
	bob, cleanupBob := hub.Subscribe("bob")
	defer cleanupBob()

	hub.Publish("alice", Event{UserID: "alice", Event: "activity.created", Data: "x"})

	require.Len(t, alice, 1)
	got := <-alice
	assert.Equal(t, "activity.created", got.Event)
	assert.Len(t, bob, 0)
}

func TestHub_BroadcastReachesEveryStream(t *testing.T) {
	hub := NewHub()

	a1, c1 := hub.Subscribe("alice")
	defer c1()
	a2, c2 := hub.Subscribe("alice")
	defer c2()
	b, c3 := hub.Subscribe("bob")
	defer c3()

	assert.Equal(t, 3, hub.TotalSubscribers())
	assert.Equal(t, 2, hub.SubscriberCount("alice"))

	hub.Broadcast(Event{Event: "slot.changed"})

	for _, ch := range []<-chan Event{a1, a2, b} {
		require.Len(t, ch, 1)
		assert.Equal(t, "slot.changed", (<-ch).Event)
	}
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("alice")
	defer cleanup()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish("alice", Event{Event: "tick"})
	}

	assert.Len(t, ch, subscriberBuffer)
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("alice")
	cleanup()
	cleanup()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount("alice"))
	assert.Equal(t, 0, hub.TotalSubscribers())

	// publishing after cleanup must not panic on a closed channel
	hub.Publish("alice", Event{Event: "tick"})
}
