// Package api implements the HTTP handlers for the AirBridge service.
package api

import (
	"os"
	"strings"

	"airbridge/internal/engine"
	"airbridge/internal/flightdata"
	"airbridge/internal/snapshot"
	"airbridge/internal/store"
	"airbridge/internal/webhooks"
)

type Server struct {
	Store     store.Store
	Engine    *engine.Engine
	Snapshots *snapshot.Builder
	Pub       *webhooks.Publisher
	Broker    EventBroker
}

// NewServer creates a Server. If DATABASE_URL is unset, uses the in-memory
// store; if REDIS_URL is unset, uses the in-process broker.
func NewServer() (*Server, error) {
	dsn := os.Getenv("DATABASE_URL")
	var s store.Store
	if strings.TrimSpace(dsn) == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(dsn)
		if err != nil {
			return nil, err
		}
		// Run migrations (dev helper)
		if os.Getenv("DB_MIGRATE") != "false" {
			_ = sp.MigrateDir("db/migrations")
		}
		s = sp
	}
	var broker EventBroker
	if os.Getenv("REDIS_URL") != "" {
		if rb, err := NewRedisBroker(); err == nil {
			broker = rb
		} else {
			broker = NewBroker()
		}
	} else {
		broker = NewBroker()
	}
	builder := snapshot.NewBuilder(flightdata.LiveProvider{})
	return &Server{
		Store:     s,
		Engine:    engine.New(s, builder),
		Snapshots: builder,
		Pub:       webhooks.NewPublisher(s),
		Broker:    broker,
	}, nil
}

// NewWebhookWorker creates a background worker for webhook deliveries.
func (s *Server) NewWebhookWorker() *webhooks.Worker {
	return webhooks.NewWorker(s.Store)
}
