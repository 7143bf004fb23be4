package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"airbridge/internal/flightdata"
	"airbridge/internal/model"
)

type fakeProvider struct {
	snap model.FlightSnapshot
	err  error
}

func (f fakeProvider) Name() string { return "fake" }
func (f fakeProvider) Lookup(ctx context.Context, trip model.TripContext) (model.FlightSnapshot, error) {
	return f.snap, f.err
}

func routeTrip() model.TripContext {
	return model.TripContext{
		TripID:              "t1",
		InputMode:           model.ModeRouteSearch,
		DepartureDate:       "2026-09-15",
		OriginAirport:       "SFO",
		DestinationAirport:  "JFK",
		DepartureTimeWindow: model.WindowMorning,
	}
}

func TestBuildUsesProviderWhenAvailable(t *testing.T) {
	dep := time.Date(2026, 9, 15, 9, 45, 0, 0, time.UTC)
	b := NewBuilder(fakeProvider{snap: model.FlightSnapshot{ScheduledDeparture: dep}})
	got := b.Build(context.Background(), routeTrip())
	if !got.ScheduledDeparture.Equal(dep) {
		t.Fatalf("want provider snapshot, got %+v", got)
	}
}

func TestBuildFallsBackOnProviderError(t *testing.T) {
	b := NewBuilder(fakeProvider{err: errors.New("boom")})
	got := b.Build(context.Background(), routeTrip())
	want := time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC)
	if !got.ScheduledDeparture.Equal(want) {
		t.Fatalf("fallback departure: want %v, got %v", want, got.ScheduledDeparture)
	}
}

func TestBuildLiveProviderDegradesSilently(t *testing.T) {
	b := NewBuilder(flightdata.LiveProvider{})
	got := b.Build(context.Background(), routeTrip())
	if got.OriginAirportCode != "SFO" || got.DestinationAirportCode != "JFK" {
		t.Fatalf("fallback must carry airports: %+v", got)
	}
	if got.AirportTimings != TimingsFor("SFO") {
		t.Fatalf("fallback must use origin airport timings")
	}
	if got.ScheduledArrival == nil {
		t.Fatal("destination known, arrival estimate expected")
	}
	if !got.ScheduledArrival.Equal(got.ScheduledDeparture.Add(3 * time.Hour)) {
		t.Fatalf("arrival must be departure+3h, got %v", got.ScheduledArrival)
	}
}

func TestBuildFlightNumberModeGetsDefaults(t *testing.T) {
	trip := model.TripContext{TripID: "t2", InputMode: model.ModeFlightNumber, DepartureDate: "2026-09-15", FlightNumber: "UA1234"}
	b := NewBuilder(nil)
	got := b.Build(context.Background(), trip)
	if got.AirportTimings != DefaultTimings() {
		t.Fatalf("flight_number mode must use default timings: %+v", got.AirportTimings)
	}
	if got.ScheduledArrival != nil {
		t.Fatalf("no destination, no arrival estimate")
	}
	want := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	if !got.ScheduledDeparture.Equal(want) {
		t.Fatalf("default departure: want %v, got %v", want, got.ScheduledDeparture)
	}
}
