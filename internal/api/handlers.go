package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"airbridge/internal/buildinfo"
	"airbridge/internal/metrics"
	"airbridge/internal/model"
	"airbridge/internal/store"
	"airbridge/internal/webhooks"
)

// TripsHandler handles POST/GET /v1/trips
func (s *Server) TripsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		body, err := readBody(r)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		req, err := model.DecodeTripRequest(body)
		if err != nil {
			if errors.Is(err, model.ErrUnsupportedMode) {
				writeTypedProblem(w, http.StatusUnprocessableEntity, problemTypeInvalidTrip, "Invalid trip request", err.Error(), r.URL.Path)
				return
			}
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		trip, err := buildTripContext(req, time.Now().UTC())
		if err != nil {
			writeTypedProblem(w, http.StatusUnprocessableEntity, problemTypeInvalidTrip, "Invalid trip request", err.Error(), r.URL.Path)
			return
		}
		if err := s.Store.PutTrip(r.Context(), trip); err != nil {
			writeProblem(w, http.StatusInternalServerError, "Create trip failed", err.Error(), r.URL.Path)
			return
		}
		metrics.TripsCreated.WithLabelValues(string(trip.InputMode)).Inc()
		s.Pub.Emit(r.Context(), webhooks.EventTripCreated, map[string]any{"trip_id": trip.TripID, "input_mode": trip.InputMode, "departure_date": trip.DepartureDate})
		writeJSON(w, http.StatusCreated, trip)
	case http.MethodGet:
		cursor := r.URL.Query().Get("cursor")
		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" { fmt.Sscanf(v, "%d", &limit) }
		items, next, err := s.Store.ListTrips(r.Context(), cursor, limit)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List trips failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// TripByIDHandler handles GET/DELETE /v1/trips/{id} and
// GET /v1/trips/{id}/events/stream (SSE).
func (s *Server) TripByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/trips/")
	if rest == r.URL.Path || rest == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing id", r.URL.Path)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	if len(parts) > 2 && parts[1] == "events" && parts[2] == "stream" {
		s.tripEventStream(w, r, id)
		return
	}
	if len(parts) > 1 {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	switch r.Method {
	case http.MethodGet:
		trip, err := s.Store.GetTrip(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeProblem(w, http.StatusNotFound, "Trip not found", id, r.URL.Path)
				return
			}
			writeProblem(w, http.StatusInternalServerError, "Get trip failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, trip)
	case http.MethodDelete:
		if err := s.Store.DeleteTrip(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeProblem(w, http.StatusNotFound, "Trip not found", id, r.URL.Path)
				return
			}
			writeProblem(w, http.StatusInternalServerError, "Delete trip failed", err.Error(), r.URL.Path)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) tripEventStream(w http.ResponseWriter, r *http.Request, tripID string) {
	if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
	if _, err := s.Store.GetTrip(r.Context(), tripID); err != nil {
		writeProblem(w, http.StatusNotFound, "Trip not found", tripID, r.URL.Path)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok { writeProblem(w, http.StatusInternalServerError, "Streaming unsupported", "", r.URL.Path); return }
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	ch := s.Broker.Subscribe(tripID)
	defer s.Broker.Unsubscribe(tripID, ch)
	fmt.Fprintf(w, "event: heartbeat\n")
	fmt.Fprintf(w, "data: {\"trip_id\":\"%s\",\"ts\":\"%s\"}\n\n", tripID, time.Now().UTC().Format(time.RFC3339))
	flusher.Flush()
	notify := r.Context().Done()
	for {
		select {
		case <-notify:
			return
		case evt := <-ch:
			b, _ := json.Marshal(evt.Data)
			fmt.Fprintf(w, "event: %s\n", evt.Type)
			fmt.Fprintf(w, "data: %s\n\n", string(b))
			flusher.Flush()
		case <-time.After(15 * time.Second):
			fmt.Fprintf(w, "event: heartbeat\n")
			fmt.Fprintf(w, "data: {\"trip_id\":\"%s\",\"ts\":\"%s\"}\n\n", tripID, time.Now().UTC().Format(time.RFC3339))
			flusher.Flush()
		}
	}
}

// RecommendationsHandler handles POST /v1/recommendations
func (s *Server) RecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost { w.WriteHeader(http.StatusMethodNotAllowed); return }
	var req model.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if strings.TrimSpace(req.TripID) == "" {
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid recommendation request", "trip_id is required", r.URL.Path)
		return
	}
	resp, err := s.Engine.Compute(r.Context(), req.TripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Trip not found", req.TripID, r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Compute failed", err.Error(), r.URL.Path)
		return
	}
	metrics.Recommendations.WithLabelValues("compute", string(resp.Confidence)).Inc()
	s.Broker.Publish(req.TripID, TripEvent{Type: webhooks.EventRecommendationComputed, Data: resp})
	s.Pub.Emit(r.Context(), webhooks.EventRecommendationComputed, resp)
	writeJSON(w, http.StatusOK, resp)
}

// RecomputeHandler handles POST /v1/recommendations/recompute
func (s *Server) RecomputeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost { w.WriteHeader(http.StatusMethodNotAllowed); return }
	var req model.RecommendationRecomputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateRecomputeRequest(&req); err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid recompute request", err.Error(), r.URL.Path)
		return
	}
	resp, err := s.Engine.Recompute(r.Context(), req.TripID, req.Reason, req.PreferenceOverrides)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeProblem(w, http.StatusNotFound, "Trip not found", req.TripID, r.URL.Path)
		case errors.Is(err, model.ErrInvalidPreference):
			writeTypedProblem(w, http.StatusUnprocessableEntity, problemTypeInvalidPreference, "Invalid preference override", err.Error(), r.URL.Path)
		default:
			writeProblem(w, http.StatusInternalServerError, "Recompute failed", err.Error(), r.URL.Path)
		}
		return
	}
	metrics.Recommendations.WithLabelValues("recompute", string(resp.Confidence)).Inc()
	s.Broker.Publish(req.TripID, TripEvent{Type: webhooks.EventRecommendationRecomputed, Data: resp})
	s.Pub.Emit(r.Context(), webhooks.EventRecommendationRecomputed, resp)
	writeJSON(w, http.StatusOK, resp)
}

// SubscriptionsHandler handles POST/GET /v1/subscriptions
func (s *Server) SubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req model.SubscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if err := validateSubscriptionRequest(&req); err != nil {
			writeProblem(w, http.StatusUnprocessableEntity, "Invalid subscription", err.Error(), r.URL.Path)
			return
		}
		sub, err := s.Store.CreateSubscription(r.Context(), req)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Create subscription failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusCreated, sub)
	case http.MethodGet:
		cursor := r.URL.Query().Get("cursor")
		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" { fmt.Sscanf(v, "%d", &limit) }
		items, next, err := s.Store.ListSubscriptions(r.Context(), cursor, limit)
		if err != nil { writeProblem(w, 500, "List subscriptions failed", err.Error(), r.URL.Path); return }
		writeJSON(w, 200, map[string]any{"items": items, "nextCursor": next})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SubscriptionByIDHandler handles DELETE /v1/subscriptions/{id}
func (s *Server) SubscriptionByIDHandler(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/v1/subscriptions/") { writeProblem(w, 404, "Not Found", "", r.URL.Path); return }
	if r.Method != http.MethodDelete { w.WriteHeader(405); return }
	id := strings.TrimPrefix(r.URL.Path, "/v1/subscriptions/")
	if err := s.Store.DeleteSubscription(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) { writeProblem(w, 404, "Subscription not found", id, r.URL.Path); return }
		writeProblem(w, 500, "Delete subscription failed", err.Error(), r.URL.Path)
		return
	}
	w.WriteHeader(204)
}

// WebhookDeliveriesHandler handles GET /v1/admin/webhook-deliveries
func (s *Server) WebhookDeliveriesHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/admin/webhook-deliveries" { writeProblem(w, 404, "Not Found", "", r.URL.Path); return }
	if r.Method != http.MethodGet { w.WriteHeader(405); return }
	status := r.URL.Query().Get("status")
	cursor := r.URL.Query().Get("cursor")
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" { fmt.Sscanf(v, "%d", &limit) }
	items, next, err := s.Store.ListWebhookDeliveries(r.Context(), status, cursor, limit)
	if err != nil { writeProblem(w, 500, "List deliveries failed", err.Error(), r.URL.Path); return }
	writeJSON(w, 200, map[string]any{"items": items, "nextCursor": next})
}

// Health
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
	defer cancel()
	if err := s.Store.Ping(ctx); err != nil {
		writeProblem(w, 503, "Not Ready", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, 200, map[string]string{"status": "ready"})
}

func (s *Server) VersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, buildinfo.Info())
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, 1<<20))
}
