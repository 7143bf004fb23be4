package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"airbridge/internal/model"
)

func trip(id string) model.TripContext {
	return model.TripContext{TripID: id, InputMode: model.ModeFlightNumber, DepartureDate: "2026-09-15", HomeAddress: "home", Status: "validated"}
}

func TestMemoryTripLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.PutTrip(ctx, trip("a")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := m.GetTrip(ctx, "a")
	if err != nil || got.TripID != "a" {
		t.Fatalf("get: %v %+v", err, got)
	}
	if err := m.DeleteTrip(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.GetTrip(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := m.DeleteTrip(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: want ErrNotFound, got %v", err)
	}
}

func TestMemoryListTripsCursor(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		_ = m.PutTrip(ctx, trip(id))
	}
	page1, next, err := m.ListTrips(ctx, "", 2)
	if err != nil || len(page1) != 2 || next != "b" {
		t.Fatalf("page1: %v len=%d next=%q", err, len(page1), next)
	}
	page2, next, err := m.ListTrips(ctx, next, 2)
	if err != nil || len(page2) != 1 || next != "" {
		t.Fatalf("page2: %v len=%d next=%q", err, len(page2), next)
	}
	if page2[0].TripID != "c" {
		t.Fatalf("want c, got %s", page2[0].TripID)
	}
}

func TestMemorySubscriptionEventMatch(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, _ = m.CreateSubscription(ctx, model.SubscriptionRequest{URL: "https://a", Events: []string{"trip.created"}})
	sub, _ := m.CreateSubscription(ctx, model.SubscriptionRequest{URL: "https://b", Events: []string{"recommendation.computed", "recommendation.recomputed"}})

	got, err := m.GetSubscriptionsForEvent(ctx, "recommendation.computed")
	if err != nil || len(got) != 1 || got[0].ID != sub.ID {
		t.Fatalf("match: %v %+v", err, got)
	}
	if err := m.DeleteSubscription(ctx, sub.ID); err != nil {
		t.Fatalf("delete sub: %v", err)
	}
	got, _ = m.GetSubscriptionsForEvent(ctx, "recommendation.computed")
	if len(got) != 0 {
		t.Fatalf("expected no match after delete, got %d", len(got))
	}
}

func TestMemoryWebhookQueue(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	id, err := m.EnqueueWebhook(ctx, "sub1", "trip.created", "https://x", "", []byte(`{}`))
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	due, err := m.FetchDueWebhookDeliveries(ctx, 10)
	if err != nil || len(due) != 1 || due[0].ID != id {
		t.Fatalf("fetch due: %v %+v", err, due)
	}
	if err := m.MarkWebhookDelivery(ctx, id, true, nil, "", 200, 5); err != nil {
		t.Fatalf("mark: %v", err)
	}
	due, _ = m.FetchDueWebhookDeliveries(ctx, 10)
	if len(due) != 0 {
		t.Fatalf("delivered item must not be due again")
	}
	items, _, err := m.ListWebhookDeliveries(ctx, "delivered", "", 10)
	if err != nil || len(items) != 1 {
		t.Fatalf("list delivered: %v %+v", err, items)
	}
}

func TestMemoryWebhookRetryScheduling(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	id, _ := m.EnqueueWebhook(ctx, "", "trip.created", "https://x", "", []byte(`{}`))
	next := time.Now().Add(time.Hour)
	_ = m.MarkWebhookDelivery(ctx, id, false, &next, "boom", 500, 3)
	due, _ := m.FetchDueWebhookDeliveries(ctx, 10)
	if len(due) != 0 {
		t.Fatalf("retry scheduled in the future must not be due")
	}
}
