package api

import (
	"sync"
)

type TripEvent struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Broker fans trip events out to SSE/WebSocket subscribers in process.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan TripEvent]struct{} // tripId -> set of channels
}

func NewBroker() *Broker {
	return &Broker{subs: map[string]map[chan TripEvent]struct{}{}}
}

func (b *Broker) Subscribe(tripID string) chan TripEvent {
	ch := make(chan TripEvent, 8)
	b.mu.Lock()
	if b.subs[tripID] == nil {
		b.subs[tripID] = map[chan TripEvent]struct{}{}
	}
	b.subs[tripID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(tripID string, ch chan TripEvent) {
	b.mu.Lock()
	if m := b.subs[tripID]; m != nil {
		delete(m, ch)
		if len(m) == 0 {
			delete(b.subs, tripID)
		}
	}
	b.mu.Unlock()
	close(ch)
}

func (b *Broker) Publish(tripID string, evt TripEvent) {
	b.mu.Lock()
	m := b.subs[tripID]
	for ch := range m {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.Unlock()
}
