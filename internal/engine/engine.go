// Package engine computes the leave-home recommendation: a deterministic
// mapping from trip preferences and a flight snapshot to a lead time,
// segmented itinerary and confidence classification.
package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"airbridge/internal/model"
	"airbridge/internal/snapshot"
)

// Lead time and modifiers (tunable constants).
const (
	baseLeadMinutes     = 90
	gateBufferMinutes   = 15
	minutesPerBag       = 7
	minutesWithChildren = 10
)

const defaultTransportOffset = 15

var transportOffsets = map[model.TransportMode]int{
	model.TransportRideshare: 20,
	model.TransportDriving:   10,
	model.TransportTrain:     25,
	model.TransportBus:       25,
	model.TransportOther:     15,
}

var confidenceMultipliers = map[model.ConfidenceProfile]float64{
	model.ProfileSafety: 1.25,
	model.ProfileSweet:  1.0,
	model.ProfileRisk:   0.85,
}

type confidenceEntry struct {
	level model.ConfidenceLevel
	score float64
}

var confidenceTable = map[model.ConfidenceProfile]confidenceEntry{
	model.ProfileSafety: {model.ConfidenceHigh, 0.90},
	model.ProfileSweet:  {model.ConfidenceMedium, 0.85},
	model.ProfileRisk:   {model.ConfidenceLow, 0.70},
}

// TripStore is the read-only capability the engine needs from storage.
// A missing trip id surfaces as the store's not-found error.
type TripStore interface {
	GetTrip(ctx context.Context, id string) (model.TripContext, error)
}

// Engine is stateless apart from the injected trip store and clock.
// Concurrent calls are independent.
type Engine struct {
	Trips     TripStore
	Snapshots *snapshot.Builder
	Now       func() time.Time
}

func New(trips TripStore, b *snapshot.Builder) *Engine {
	return &Engine{Trips: trips, Snapshots: b, Now: func() time.Time { return time.Now().UTC() }}
}

// Compute builds a recommendation for a stored trip.
func (e *Engine) Compute(ctx context.Context, tripID string) (model.RecommendationResponse, error) {
	trip, err := e.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return model.RecommendationResponse{}, err
	}
	snap := e.Snapshots.Build(ctx, trip)
	return e.build(trip, snap), nil
}

// Recompute re-runs the computation with optional preference overrides merged
// onto a copy of the stored preferences. Overrides are validated up front and
// never partially applied; the stored trip is not mutated.
func (e *Engine) Recompute(ctx context.Context, tripID, reason string, overrides *model.PreferenceOverrides) (model.RecommendationResponse, error) {
	if err := overrides.Validate(); err != nil {
		return model.RecommendationResponse{}, err
	}
	trip, err := e.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return model.RecommendationResponse{}, err
	}
	trip.Preferences = overrides.Apply(trip.Preferences)
	snap := e.Snapshots.Build(ctx, trip)
	resp := e.build(trip, snap)
	if reason != "" {
		resp.Explanation = "[Recompute: " + reason + "] " + resp.Explanation
	}
	return resp, nil
}

func (e *Engine) build(trip model.TripContext, snap model.FlightSnapshot) model.RecommendationResponse {
	prefs := trip.Preferences
	total, segments, modifierParts := leadMinutes(prefs, snap)

	conf, ok := confidenceTable[prefs.ConfidenceProfile]
	if !ok {
		conf = confidenceTable[model.ProfileSweet]
	}

	modifierText := ""
	if len(modifierParts) > 0 {
		modifierText = " " + strings.Join(modifierParts, ", ") + "."
	}
	explanation := fmt.Sprintf(
		"Base lead %d min + airport baseline (%d+%d min) + %s offset, %s profile.%s",
		baseLeadMinutes,
		snap.AirportTimings.Security,
		snap.AirportTimings.CheckInBuffer(),
		prefs.TransportMode,
		prefs.ConfidenceProfile,
		modifierText,
	)

	return model.RecommendationResponse{
		TripID:          trip.TripID,
		LeaveHomeAt:     snap.ScheduledDeparture.Add(-time.Duration(total) * time.Minute),
		Confidence:      conf.level,
		ConfidenceScore: conf.score,
		Explanation:     explanation,
		Segments:        segments,
		ComputedAt:      e.Now(),
	}
}

// leadMinutes runs the core arithmetic. The confidence multiplier scales only
// the core components (base lead, transport, airport, gate); bag, children
// and extra-time minutes are added flat after scaling. Segments are scaled
// and rounded independently of the total, so their sum may drift from it.
func leadMinutes(prefs model.TripPreferences, snap model.FlightSnapshot) (int, []model.SegmentDetail, []string) {
	transportOffset, ok := transportOffsets[prefs.TransportMode]
	if !ok {
		transportOffset = defaultTransportOffset
	}
	airportBaseline := snap.AirportTimings.Security + snap.AirportTimings.CheckInBuffer()
	mult, ok := confidenceMultipliers[prefs.ConfidenceProfile]
	if !ok {
		mult = 1.0
	}

	coreMinutes := baseLeadMinutes + transportOffset + airportBaseline + gateBufferMinutes

	bagMinutes := prefs.BagCount * minutesPerBag
	childrenMinutes := 0
	if prefs.TravelingWithChildren {
		childrenMinutes = minutesWithChildren
	}
	modifierMinutes := bagMinutes + childrenMinutes + prefs.ExtraTimeMinutes

	totalMinutes := scale(coreMinutes, mult) + modifierMinutes

	segments := []model.SegmentDetail{
		{ID: "home_buffer", Label: "Home buffer", DurationMinutes: scale(baseLeadMinutes, mult), Advice: "Leave home in time for transport."},
		{ID: "transport", Label: "Transport to airport", DurationMinutes: scale(transportOffset, mult), Advice: fmt.Sprintf("Allow time for %s.", prefs.TransportMode)},
		{ID: "check_in_security", Label: "Check-in & security", DurationMinutes: scale(airportBaseline, mult), Advice: "TSA and check-in buffer."},
		{ID: "gate_buffer", Label: "Gate buffer", DurationMinutes: scale(gateBufferMinutes, mult), Advice: "Reach gate before boarding."},
	}
	if modifierMinutes > 0 {
		segments = append(segments, model.SegmentDetail{
			ID: "extra_buffer", Label: "Extra buffer", DurationMinutes: modifierMinutes,
			Advice: "Bags, children, and extra time.",
		})
	}

	var parts []string
	if prefs.BagCount > 0 {
		parts = append(parts, fmt.Sprintf("+%d min for %d bag(s)", bagMinutes, prefs.BagCount))
	}
	if prefs.TravelingWithChildren {
		parts = append(parts, fmt.Sprintf("+%d min for kids", minutesWithChildren))
	}
	if prefs.ExtraTimeMinutes > 0 {
		parts = append(parts, fmt.Sprintf("+%d min extra buffer", prefs.ExtraTimeMinutes))
	}

	return totalMinutes, segments, parts
}

// scale applies a confidence multiplier; ties round to even (112.5 -> 112),
// matching round-half-to-even everywhere minutes are scaled.
func scale(minutes int, mult float64) int {
	return int(math.RoundToEven(float64(minutes) * mult))
}
