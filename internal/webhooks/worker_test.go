package webhooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"airbridge/internal/metrics"
	"airbridge/internal/store"
)

type recordStore struct {
	*store.Memory
	mu    sync.Mutex
	marks []MarkRec
	fails []FailRec
}
type MarkRec struct {
	ID            string
	Success       bool
	Code, Latency int
	LastErr       string
}
type FailRec struct {
	ID            string
	Code, Latency int
	LastErr       string
}

func (r *recordStore) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
	r.mu.Lock()
	r.marks = append(r.marks, MarkRec{ID: id, Success: success, Code: responseCode, Latency: latencyMs, LastErr: lastError})
	r.mu.Unlock()
	return r.Memory.MarkWebhookDelivery(ctx, id, success, nextAttemptAt, lastError, responseCode, latencyMs)
}
func (r *recordStore) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
	r.mu.Lock()
	r.fails = append(r.fails, FailRec{ID: id, Code: responseCode, Latency: latencyMs, LastErr: lastError})
	r.mu.Unlock()
	return r.Memory.FailWebhookDelivery(ctx, id, lastError, responseCode, latencyMs)
}

func TestWorkerProcessOnce_SuccessAndSignature(t *testing.T) {
	var gotSig, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Signature")
		gotType = r.Header.Get("X-Event-Type")
		w.WriteHeader(200)
	}))
	defer srv.Close()

	rs := &recordStore{Memory: store.NewMemory()}
	w := &Worker{Store: rs, HTTP: srv.Client(), Stop: make(chan struct{}), MaxAttempts: 3}
	payload := []byte(`{"trip_id":"t1"}`)
	id, err := rs.Memory.EnqueueWebhook(context.Background(), "sub1", EventRecommendationComputed, srv.URL, "secret", payload)
	if err != nil || id == "" {
		t.Fatalf("enqueue failed: %v", err)
	}

	before := testutil.ToFloat64(metrics.WebhookDeliveries.WithLabelValues(EventRecommendationComputed, "delivered"))
	w.processOnce()
	after := testutil.ToFloat64(metrics.WebhookDeliveries.WithLabelValues(EventRecommendationComputed, "delivered"))
	if after != before+1 {
		t.Fatalf("delivered counter not incremented: before=%v after=%v", before, after)
	}

	if gotType != EventRecommendationComputed {
		t.Fatalf("missing event type header: %q", gotType)
	}
	if gotSig != SignHMAC("secret", payload) {
		t.Fatalf("bad signature: %q", gotSig)
	}
	if len(rs.marks) == 0 || !rs.marks[0].Success {
		t.Fatalf("expected mark success, got: %+v", rs.marks)
	}
}

func TestWorkerProcessOnce_Fail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(500) }))
	defer srv.Close()
	rs := &recordStore{Memory: store.NewMemory()}
	w := &Worker{Store: rs, HTTP: srv.Client(), Stop: make(chan struct{}), MaxAttempts: 1}
	_, _ = rs.Memory.EnqueueWebhook(context.Background(), "", EventTripCreated, srv.URL, "", []byte(`{}`))
	before := testutil.ToFloat64(metrics.WebhookDeliveries.WithLabelValues(EventTripCreated, "failed"))
	w.processOnce()
	after := testutil.ToFloat64(metrics.WebhookDeliveries.WithLabelValues(EventTripCreated, "failed"))
	if after != before+1 {
		t.Fatalf("failed counter not incremented: before=%v after=%v", before, after)
	}
	if len(rs.fails) == 0 {
		t.Fatalf("expected fail recorded")
	}
}

func TestNextBackoffCapped(t *testing.T) {
	if nextBackoff(0) != time.Second {
		t.Fatalf("first retry should wait 1s")
	}
	if nextBackoff(3) != 8*time.Second {
		t.Fatalf("want exponential growth")
	}
	if nextBackoff(50) > time.Hour {
		t.Fatalf("backoff must cap at 1h")
	}
}
