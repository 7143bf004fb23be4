package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"airbridge/internal/flightdata"
	"airbridge/internal/model"
	"airbridge/internal/snapshot"
	"airbridge/internal/store"
)

var computedAt = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func testEngine(t *testing.T, trips ...model.TripContext) *Engine {
	t.Helper()
	mem := store.NewMemory()
	for _, tr := range trips {
		if err := mem.PutTrip(context.Background(), tr); err != nil {
			t.Fatalf("put trip: %v", err)
		}
	}
	e := New(mem, snapshot.NewBuilder(flightdata.LiveProvider{}))
	e.Now = func() time.Time { return computedAt }
	return e
}

func baseTrip() model.TripContext {
	return model.TripContext{
		TripID:        "trip-1",
		InputMode:     model.ModeFlightNumber,
		FlightNumber:  "UA1234",
		DepartureDate: "2026-09-15",
		HomeAddress:   "home",
		Status:        "validated",
		Preferences: model.TripPreferences{
			TransportMode:     model.TransportDriving,
			ConfidenceProfile: model.ProfileSweet,
		},
	}
}

func TestComputeDrivingSweetNoModifiers(t *testing.T) {
	e := testEngine(t, baseTrip())
	resp, err := e.Compute(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// 90 base + 10 driving + 45 airport + 15 gate = 160, x1.0
	want := time.Date(2026, 9, 15, 7, 20, 0, 0, time.UTC)
	if !resp.LeaveHomeAt.Equal(want) {
		t.Fatalf("leave_home_at: want %v, got %v", want, resp.LeaveHomeAt)
	}
	wantExp := "Base lead 90 min + airport baseline (25+20 min) + driving offset, sweet profile."
	if resp.Explanation != wantExp {
		t.Fatalf("explanation:\nwant %q\ngot  %q", wantExp, resp.Explanation)
	}
	if len(resp.Segments) != 4 {
		t.Fatalf("no modifiers, want 4 segments, got %d", len(resp.Segments))
	}
	sum := 0
	for _, s := range resp.Segments {
		sum += s.DurationMinutes
	}
	if sum != 160 {
		t.Fatalf("segment sum: want 160, got %d", sum)
	}
	if !resp.ComputedAt.Equal(computedAt) {
		t.Fatalf("computed_at: want %v, got %v", computedAt, resp.ComputedAt)
	}
}

func TestComputeModifiersAddedFlat(t *testing.T) {
	trip := baseTrip()
	trip.Preferences.BagCount = 3
	trip.Preferences.TravelingWithChildren = true
	e := testEngine(t, trip)
	resp, err := e.Compute(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// 160 core + 21 bags + 10 kids = 191
	want := time.Date(2026, 9, 15, 6, 49, 0, 0, time.UTC)
	if !resp.LeaveHomeAt.Equal(want) {
		t.Fatalf("leave_home_at: want %v, got %v", want, resp.LeaveHomeAt)
	}
	if len(resp.Segments) != 5 {
		t.Fatalf("want extra_buffer segment, got %d segments", len(resp.Segments))
	}
	last := resp.Segments[4]
	if last.ID != "extra_buffer" || last.DurationMinutes != 31 {
		t.Fatalf("extra_buffer segment: %+v", last)
	}
	wantExp := "Base lead 90 min + airport baseline (25+20 min) + driving offset, sweet profile. +21 min for 3 bag(s), +10 min for kids."
	if resp.Explanation != wantExp {
		t.Fatalf("explanation:\nwant %q\ngot  %q", wantExp, resp.Explanation)
	}
}

func TestComputeBagCountMonotonic(t *testing.T) {
	prev := time.Time{}
	for bags := 0; bags <= 3; bags++ {
		trip := baseTrip()
		trip.Preferences.BagCount = bags
		e := testEngine(t, trip)
		resp, err := e.Compute(context.Background(), "trip-1")
		if err != nil {
			t.Fatalf("bags=%d: %v", bags, err)
		}
		if !prev.IsZero() && !resp.LeaveHomeAt.Before(prev) {
			t.Fatalf("bags=%d: more bags must mean leaving earlier (%v vs %v)", bags, resp.LeaveHomeAt, prev)
		}
		prev = resp.LeaveHomeAt
	}
}

func TestComputeProfileScaling(t *testing.T) {
	leaveFor := func(p model.ConfidenceProfile) time.Time {
		trip := baseTrip()
		trip.Preferences.ConfidenceProfile = p
		e := testEngine(t, trip)
		resp, err := e.Compute(context.Background(), "trip-1")
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		return resp.LeaveHomeAt
	}
	safety := leaveFor(model.ProfileSafety)
	sweet := leaveFor(model.ProfileSweet)
	risk := leaveFor(model.ProfileRisk)
	if !safety.Before(sweet) || !sweet.Before(risk) {
		t.Fatalf("ordering: safety %v < sweet %v < risk %v expected", safety, sweet, risk)
	}
	// 160x1.25=200 and 160x0.85=136
	if sweet.Sub(safety) != 40*time.Minute {
		t.Fatalf("safety delta: want 40m, got %v", sweet.Sub(safety))
	}
	if risk.Sub(sweet) != 24*time.Minute {
		t.Fatalf("risk delta: want 24m, got %v", risk.Sub(sweet))
	}
}

func TestComputeConfidenceClassification(t *testing.T) {
	cases := []struct {
		profile model.ConfidenceProfile
		level   model.ConfidenceLevel
		score   float64
	}{
		{model.ProfileSafety, model.ConfidenceHigh, 0.90},
		{model.ProfileSweet, model.ConfidenceMedium, 0.85},
		{model.ProfileRisk, model.ConfidenceLow, 0.70},
	}
	for _, c := range cases {
		trip := baseTrip()
		trip.Preferences.ConfidenceProfile = c.profile
		e := testEngine(t, trip)
		resp, err := e.Compute(context.Background(), "trip-1")
		if err != nil {
			t.Fatalf("%s: %v", c.profile, err)
		}
		if resp.Confidence != c.level || resp.ConfidenceScore != c.score {
			t.Errorf("%s: want %s/%.2f, got %s/%.2f", c.profile, c.level, c.score, resp.Confidence, resp.ConfidenceScore)
		}
	}
}

func TestComputeRouteSearchUsesOriginTimings(t *testing.T) {
	trip := baseTrip()
	trip.InputMode = model.ModeRouteSearch
	trip.FlightNumber = ""
	trip.Airline = "Delta"
	trip.OriginAirport = "ATL"
	trip.DestinationAirport = "JFK"
	trip.DepartureTimeWindow = model.WindowMorning
	e := testEngine(t, trip)
	resp, err := e.Compute(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// ATL security 35, buffer stays 20: core 90+10+55+15 = 170; departure 08:00
	want := time.Date(2026, 9, 15, 5, 10, 0, 0, time.UTC)
	if !resp.LeaveHomeAt.Equal(want) {
		t.Fatalf("leave_home_at: want %v, got %v", want, resp.LeaveHomeAt)
	}
	wantExp := "Base lead 90 min + airport baseline (35+20 min) + driving offset, sweet profile."
	if resp.Explanation != wantExp {
		t.Fatalf("explanation: got %q", resp.Explanation)
	}
}

func TestComputeLateNightAnchorsNextDay(t *testing.T) {
	trip := baseTrip()
	trip.InputMode = model.ModeRouteSearch
	trip.Airline = "Delta"
	trip.OriginAirport = "BOI"
	trip.DestinationAirport = "SEA"
	trip.DepartureTimeWindow = model.WindowLateNight
	e := testEngine(t, trip)
	resp, err := e.Compute(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// departure 2026-09-16 01:30, lead 160
	want := time.Date(2026, 9, 15, 22, 50, 0, 0, time.UTC)
	if !resp.LeaveHomeAt.Equal(want) {
		t.Fatalf("leave_home_at: want %v, got %v", want, resp.LeaveHomeAt)
	}
}

func TestComputeUnknownTrip(t *testing.T) {
	e := testEngine(t)
	if _, err := e.Compute(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRecomputeReasonPrefix(t *testing.T) {
	e := testEngine(t, baseTrip())
	resp, err := e.Recompute(context.Background(), "trip-1", "traffic alert", nil)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	wantExp := "[Recompute: traffic alert] Base lead 90 min + airport baseline (25+20 min) + driving offset, sweet profile."
	if resp.Explanation != wantExp {
		t.Fatalf("explanation: got %q", resp.Explanation)
	}
	// empty reason, no prefix
	resp, err = e.Recompute(context.Background(), "trip-1", "", nil)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if resp.Explanation[0] == '[' {
		t.Fatalf("empty reason must not be prefixed: %q", resp.Explanation)
	}
}

func TestRecomputeOverridesMergeOntoCopy(t *testing.T) {
	trip := baseTrip()
	trip.Preferences.BagCount = 2
	mem := store.NewMemory()
	_ = mem.PutTrip(context.Background(), trip)
	e := New(mem, snapshot.NewBuilder(flightdata.LiveProvider{}))
	e.Now = func() time.Time { return computedAt }

	extra := 30
	resp, err := e.Recompute(context.Background(), "trip-1", "gate change", &model.PreferenceOverrides{ExtraTimeMinutes: &extra})
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	// 160 core + 14 bags + 30 extra = 204: bag count survives the merge
	want := time.Date(2026, 9, 15, 6, 36, 0, 0, time.UTC)
	if !resp.LeaveHomeAt.Equal(want) {
		t.Fatalf("leave_home_at: want %v, got %v", want, resp.LeaveHomeAt)
	}

	// stored trip untouched
	stored, _ := mem.GetTrip(context.Background(), "trip-1")
	if stored.Preferences.ExtraTimeMinutes != 0 || stored.Preferences.BagCount != 2 {
		t.Fatalf("stored preferences mutated: %+v", stored.Preferences)
	}
}

func TestRecomputeInvalidOverrideRejected(t *testing.T) {
	e := testEngine(t, baseTrip())
	bad := 5
	_, err := e.Recompute(context.Background(), "trip-1", "", &model.PreferenceOverrides{BagCount: &bad})
	if !errors.Is(err, model.ErrInvalidPreference) {
		t.Fatalf("want ErrInvalidPreference, got %v", err)
	}
	badExtra := 20
	_, err = e.Recompute(context.Background(), "trip-1", "", &model.PreferenceOverrides{ExtraTimeMinutes: &badExtra})
	if !errors.Is(err, model.ErrInvalidPreference) {
		t.Fatalf("extra_time 20: want ErrInvalidPreference, got %v", err)
	}
}

func TestScaleRoundsHalfToEven(t *testing.T) {
	cases := []struct {
		minutes int
		mult    float64
		want    int
	}{
		{90, 1.25, 112},  // 112.5 ties down to even
		{170, 1.25, 212}, // 212.5 ties down to even
		{10, 0.85, 8},    // 8.5 ties down to even
		{15, 0.85, 13},   // 12.75, no tie
		{90, 0.85, 76},   // 76.5 ties down to even
		{160, 1.25, 200}, // exact
		{160, 0.85, 136}, // exact
	}
	for _, c := range cases {
		if got := scale(c.minutes, c.mult); got != c.want {
			t.Errorf("%dx%.2f: want %d, got %d", c.minutes, c.mult, c.want, got)
		}
	}
}

func TestComputeRideshareSafetyTieBreaks(t *testing.T) {
	trip := baseTrip()
	trip.Preferences.TransportMode = model.TransportRideshare
	trip.Preferences.ConfidenceProfile = model.ProfileSafety
	e := testEngine(t, trip)
	resp, err := e.Compute(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// core 90+20+45+15 = 170, x1.25 = 212.5 -> 212
	want := time.Date(2026, 9, 15, 6, 28, 0, 0, time.UTC)
	if !resp.LeaveHomeAt.Equal(want) {
		t.Fatalf("leave_home_at: want %v, got %v", want, resp.LeaveHomeAt)
	}
	// home_buffer 90x1.25 = 112.5 -> 112
	if resp.Segments[0].ID != "home_buffer" || resp.Segments[0].DurationMinutes != 112 {
		t.Fatalf("home_buffer: %+v", resp.Segments[0])
	}
}
