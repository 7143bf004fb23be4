package api

import (
	"testing"
	"time"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("trip-1")
	defer b.Unsubscribe("trip-1", ch)

	b.Publish("trip-1", TripEvent{Type: "recommendation.computed", Data: map[string]any{"x": 1}})
	select {
	case evt := <-ch:
		if evt.Type != "recommendation.computed" {
			t.Fatalf("wrong event: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestBrokerIsolatesTrips(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("trip-1")
	defer b.Unsubscribe("trip-1", ch)

	b.Publish("trip-2", TripEvent{Type: "recommendation.computed"})
	select {
	case evt := <-ch:
		t.Fatalf("event for another trip leaked: %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerPublishAfterUnsubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("trip-1")
	b.Unsubscribe("trip-1", ch)
	// must not panic or block
	b.Publish("trip-1", TripEvent{Type: "recommendation.computed"})
}
