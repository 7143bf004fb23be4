package api

import (
	"encoding/json"
	"net/http"
)

// Problem type URIs for this service's error families. Everything else uses
// about:blank and lets the title carry the meaning.
const (
	problemTypeInvalidTrip       = "https://airbridge.dev/problems/invalid-trip"
	problemTypeInvalidPreference = "https://airbridge.dev/problems/invalid-preference"
)

// Problem is an RFC7807 problem details body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	writeTypedProblem(w, status, "about:blank", title, detail, instance)
}

func writeTypedProblem(w http.ResponseWriter, status int, ptype, title, detail, instance string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Type:     ptype,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}
