package api

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type EventBroker interface {
	Subscribe(tripID string) chan TripEvent
	Unsubscribe(tripID string, ch chan TripEvent)
	Publish(tripID string, evt TripEvent)
}

// In-memory broker in broker.go satisfies EventBroker

// RedisBroker implements EventBroker over Redis Pub/Sub so SSE/WS clients on
// any replica see events published by another.
type RedisBroker struct {
	rdb *redis.Client

	mu   sync.Mutex
	subs map[chan TripEvent]*redis.PubSub
}

func NewRedisBroker() (*RedisBroker, error) {
	opt, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		return nil, err
	}
	return &RedisBroker{rdb: redis.NewClient(opt), subs: map[chan TripEvent]*redis.PubSub{}}, nil
}

func (b *RedisBroker) Subscribe(tripID string) chan TripEvent {
	ch := make(chan TripEvent, 16)
	ctx := context.Background()
	ps := b.rdb.Subscribe(ctx, b.chanName(tripID))
	// initial consume to ensure subscription
	_, _ = ps.Receive(ctx)
	b.mu.Lock()
	b.subs[ch] = ps
	b.mu.Unlock()
	// The fanout goroutine owns ch: it is the only closer, after ps.Channel
	// drains on PubSub close or connection loss.
	go func() {
		defer close(ch)
		for msg := range ps.Channel() {
			var evt TripEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err == nil {
				select {
				case ch <- evt:
				default:
				}
			}
		}
	}()
	return ch
}

func (b *RedisBroker) Unsubscribe(tripID string, ch chan TripEvent) {
	b.mu.Lock()
	ps, ok := b.subs[ch]
	delete(b.subs, ch)
	b.mu.Unlock()
	if !ok {
		return
	}
	_ = ps.Close()
}

func (b *RedisBroker) Publish(tripID string, evt TripEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, _ := json.Marshal(evt)
	_ = b.rdb.Publish(ctx, b.chanName(tripID), data).Err()
}

func (b *RedisBroker) chanName(tripID string) string { return "trip:" + tripID }
