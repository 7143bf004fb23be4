package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"airbridge/internal/model"
)

func normalizeIATA(s string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if len(v) != 3 {
		return "", fmt.Errorf("airport code %q must be exactly 3 alphabetic characters (IATA format)", s)
	}
	for _, r := range v {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("airport code %q must be exactly 3 alphabetic characters (IATA format)", s)
		}
	}
	return v, nil
}

func normalizeDate(s string) (string, error) {
	v := strings.TrimSpace(s)
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return "", fmt.Errorf("departure_date %q must be YYYY-MM-DD", s)
	}
	return v, nil
}

// buildTripContext normalizes and validates an intake request and produces
// the trip record to store. Every error from here is a validation failure;
// nothing is clamped or defaulted.
func buildTripContext(req model.TripRequest, now time.Time) (model.TripContext, error) {
	switch v := req.(type) {
	case model.FlightNumberTripRequest:
		flight := strings.ToUpper(strings.TrimSpace(v.FlightNumber))
		if flight == "" {
			return model.TripContext{}, fmt.Errorf("flight_number is required")
		}
		date, err := normalizeDate(v.DepartureDate)
		if err != nil {
			return model.TripContext{}, err
		}
		home := strings.TrimSpace(v.HomeAddress)
		if home == "" {
			return model.TripContext{}, fmt.Errorf("home_address is required")
		}
		if err := v.Preferences.Validate(); err != nil {
			return model.TripContext{}, err
		}
		return model.TripContext{
			TripID:        uuid.New().String(),
			InputMode:     model.ModeFlightNumber,
			FlightNumber:  flight,
			DepartureDate: date,
			HomeAddress:   home,
			CreatedAt:     now,
			Status:        "validated",
			Preferences:   v.Preferences,
		}, nil
	case model.RouteSearchTripRequest:
		airline := strings.TrimSpace(v.Airline)
		if airline == "" {
			return model.TripContext{}, fmt.Errorf("airline is required")
		}
		origin, err := normalizeIATA(v.OriginAirport)
		if err != nil {
			return model.TripContext{}, err
		}
		dest, err := normalizeIATA(v.DestinationAirport)
		if err != nil {
			return model.TripContext{}, err
		}
		if origin == dest {
			return model.TripContext{}, fmt.Errorf("origin_airport and destination_airport must be different")
		}
		if !v.DepartureTimeWindow.Valid() {
			return model.TripContext{}, fmt.Errorf("departure_time_window %q is not a known window", v.DepartureTimeWindow)
		}
		date, err := normalizeDate(v.DepartureDate)
		if err != nil {
			return model.TripContext{}, err
		}
		home := strings.TrimSpace(v.HomeAddress)
		if home == "" {
			return model.TripContext{}, fmt.Errorf("home_address is required")
		}
		if err := v.Preferences.Validate(); err != nil {
			return model.TripContext{}, err
		}
		return model.TripContext{
			TripID:              uuid.New().String(),
			InputMode:           model.ModeRouteSearch,
			Airline:             airline,
			OriginAirport:       origin,
			DestinationAirport:  dest,
			DepartureDate:       date,
			DepartureTimeWindow: v.DepartureTimeWindow,
			HomeAddress:         home,
			CreatedAt:           now,
			Status:              "validated",
			Preferences:         v.Preferences,
		}, nil
	default:
		return model.TripContext{}, model.ErrUnsupportedMode
	}
}

var allowedWebhookEvents = map[string]struct{}{
	"trip.created":              {},
	"recommendation.computed":   {},
	"recommendation.recomputed": {},
}

func validateSubscriptionRequest(req *model.SubscriptionRequest) error {
	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		return fmt.Errorf("url must be an http(s) endpoint")
	}
	if len(req.Events) == 0 {
		return fmt.Errorf("events must not be empty")
	}
	for _, e := range req.Events {
		if _, ok := allowedWebhookEvents[e]; !ok {
			return fmt.Errorf("unknown event type: %s (allowed: trip.created, recommendation.computed, recommendation.recomputed)", e)
		}
	}
	return nil
}

const maxRecomputeReasonLen = 500

func validateRecomputeRequest(req *model.RecommendationRecomputeRequest) error {
	if strings.TrimSpace(req.TripID) == "" {
		return fmt.Errorf("trip_id is required")
	}
	if len(req.Reason) > maxRecomputeReasonLen {
		return fmt.Errorf("reason must be at most %d characters", maxRecomputeReasonLen)
	}
	return nil
}
