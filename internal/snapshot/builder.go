// Package snapshot builds the per-request flight snapshot that feeds the
// recommendation engine.
package snapshot

import (
	"context"
	"time"

	"airbridge/internal/flightdata"
	"airbridge/internal/model"
)

// Placeholder flight duration used for the arrival estimate until a real
// schedule source is wired in.
const placeholderFlightDuration = 3 * time.Hour

// Builder produces FlightSnapshots for trips. A flightdata.Provider supplies
// live schedule data when one exists; any provider failure degrades to the
// deterministic placeholder, so Build is total and never fails.
type Builder struct {
	Provider flightdata.Provider
}

func NewBuilder(p flightdata.Provider) *Builder { return &Builder{Provider: p} }

func (b *Builder) Build(ctx context.Context, trip model.TripContext) model.FlightSnapshot {
	if b.Provider != nil {
		if snap, err := b.Provider.Lookup(ctx, trip); err == nil {
			return snap
		}
		// ErrUnavailable or anything else from the provider: callers cannot
		// distinguish live data from the fallback in the response shape.
	}
	return b.fallback(trip)
}

func (b *Builder) fallback(trip model.TripContext) model.FlightSnapshot {
	day, err := trip.DepartureDay()
	if err != nil {
		day = time.Now().UTC()
	}
	snap := model.FlightSnapshot{
		ScheduledDeparture: ResolveDeparture(day, trip.InputMode, trip.DepartureTimeWindow),
		AirportTimings:     DefaultTimings(),
	}
	if trip.InputMode == model.ModeRouteSearch {
		snap.OriginAirportCode = trip.OriginAirport
		snap.DestinationAirportCode = trip.DestinationAirport
		snap.AirportTimings = TimingsFor(trip.OriginAirport)
	}
	if snap.DestinationAirportCode != "" {
		arr := snap.ScheduledDeparture.Add(placeholderFlightDuration)
		snap.ScheduledArrival = &arr
	}
	return snap
}
