// Package flightdata defines the seam for live flight schedule integrations.
package flightdata

import (
	"context"
	"errors"

	"airbridge/internal/model"
)

// ErrUnavailable signals that no live schedule data could be obtained. The
// snapshot builder branches on it and serves the deterministic fallback;
// callers of the builder never see this error.
var ErrUnavailable = errors.New("flight data provider unavailable")

// Provider looks up live schedule data for a trip.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, trip model.TripContext) (model.FlightSnapshot, error)
}

// LiveProvider is the placeholder slot for a real schedule integration
// (FlightAware, Amadeus, airline feeds). It always reports unavailable.
type LiveProvider struct{}

func (LiveProvider) Name() string { return "live" }

func (LiveProvider) Lookup(ctx context.Context, trip model.TripContext) (model.FlightSnapshot, error) {
	return model.FlightSnapshot{}, ErrUnavailable
}
