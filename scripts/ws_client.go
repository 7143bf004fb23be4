// Package main runs a demo WebSocket client for trip events.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	// Create a trip
	body := []byte(`{
		"input_mode": "route_search",
		"airline": "Delta",
		"origin_airport": "sfo",
		"destination_airport": "jfk",
		"departure_date": "2026-09-15",
		"departure_time_window": "morning",
		"home_address": "500 Mission St, San Francisco",
		"preferences": {"transport_mode": "driving", "bag_count": 1, "traveling_with_children": false, "confidence_profile": "sweet", "extra_time_minutes": 0}
	}`)
	req, _ := http.NewRequest(http.MethodPost, base+"/v1/trips", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var trip struct {
		TripID string `json:"trip_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&trip); err != nil {
		log.Fatal(err)
	}
	if trip.TripID == "" {
		log.Fatal("no trip id returned")
	}
	log.Printf("Trip ID: %s", trip.TripID)

	// Connect WS
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/trips/events/ws"}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	// connection_init
	if err := c.WriteJSON(wsMessage{Type: "connection_init"}); err != nil {
		log.Fatal(err)
	}
	// subscribe to trip events
	pl, _ := json.Marshal(map[string]any{"trip_id": trip.TripID})
	if err := c.WriteJSON(wsMessage{Type: "subscribe", ID: "1", Payload: pl}); err != nil {
		log.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var m wsMessage
			if err := c.ReadJSON(&m); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s: %s", m.Type, string(m.Payload))
		}
	}()

	// Trigger an event via recompute
	time.Sleep(500 * time.Millisecond)
	recompute := fmt.Sprintf(`{"trip_id":%q,"reason":"traffic alert","preference_overrides":{"extra_time_minutes":30}}`, trip.TripID)
	recReq, _ := http.NewRequest(http.MethodPost, base+"/v1/recommendations/recompute", bytes.NewReader([]byte(recompute)))
	recReq.Header.Set("Content-Type", "application/json")
	_, _ = http.DefaultClient.Do(recReq)

	// Wait briefly to receive a few messages
	select {
	case <-time.After(2 * time.Second):
	case <-done:
	}
}
