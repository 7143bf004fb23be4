package api

import (
	"testing"

	redis "github.com/redis/go-redis/v9"
)

func TestRedisBrokerUnsubscribeLeavesUntrackedChannelOpen(t *testing.T) {
	b := &RedisBroker{subs: map[chan TripEvent]*redis.PubSub{}}
	ch := make(chan TripEvent, 1)

	// Unsubscribe must never close the channel itself; the fanout goroutine
	// owns the close. An untracked channel stays usable.
	b.Unsubscribe("trip-1", ch)
	b.Unsubscribe("trip-1", ch)

	ch <- TripEvent{Type: "recommendation.computed"}
	got := <-ch
	if got.Type != "recommendation.computed" {
		t.Fatalf("channel unusable after Unsubscribe: %+v", got)
	}
}
