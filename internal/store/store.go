package store

import (
	"context"
	"errors"
	"time"

	"airbridge/internal/model"
)

// Store is the persistence interface used by the API server. Trips are
// written once by intake and read by the recommendation engine; the webhook
// queue backs the delivery worker.
type Store interface {
	// Trips
	PutTrip(ctx context.Context, trip model.TripContext) error
	GetTrip(ctx context.Context, id string) (model.TripContext, error)
	ListTrips(ctx context.Context, cursor string, limit int) (items []model.TripContext, nextCursor string, err error)
	DeleteTrip(ctx context.Context, id string) error

	// Webhook subscriptions
	CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error)
	GetSubscriptionsForEvent(ctx context.Context, eventType string) ([]model.Subscription, error)
	ListSubscriptions(ctx context.Context, cursor string, limit int) ([]model.Subscription, string, error)
	DeleteSubscription(ctx context.Context, id string) error

	// Webhook delivery queue
	EnqueueWebhook(ctx context.Context, subscriptionID, eventType, url, secret string, payload []byte) (string, error)
	FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error)
	MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error
	FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error
	ListWebhookDeliveries(ctx context.Context, status, cursor string, limit int) ([]map[string]any, string, error)

	Ping(ctx context.Context) error
}

var ErrNotFound = errors.New("not found")
