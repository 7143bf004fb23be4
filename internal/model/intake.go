package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnsupportedMode is returned when the intake discriminator is missing or
// names a mode this service does not handle.
var ErrUnsupportedMode = errors.New("unsupported input_mode")

// TripRequest is the discriminated intake payload: one of two variants keyed
// by input_mode. Callers dispatch with a type switch.
type TripRequest interface {
	Mode() InputMode
}

type FlightNumberTripRequest struct {
	InputMode     InputMode       `json:"input_mode"`
	FlightNumber  string          `json:"flight_number"`
	DepartureDate string          `json:"departure_date"`
	HomeAddress   string          `json:"home_address"`
	Preferences   TripPreferences `json:"preferences"`
}

func (FlightNumberTripRequest) Mode() InputMode { return ModeFlightNumber }

type RouteSearchTripRequest struct {
	InputMode           InputMode           `json:"input_mode"`
	Airline             string              `json:"airline"`
	OriginAirport       string              `json:"origin_airport"`
	DestinationAirport  string              `json:"destination_airport"`
	DepartureDate       string              `json:"departure_date"`
	DepartureTimeWindow DepartureTimeWindow `json:"departure_time_window"`
	HomeAddress         string              `json:"home_address"`
	Preferences         TripPreferences     `json:"preferences"`
}

func (RouteSearchTripRequest) Mode() InputMode { return ModeRouteSearch }

// DecodeTripRequest reads the discriminator, then unmarshals the matching
// variant. Field validation happens later; this only settles the shape.
func DecodeTripRequest(data []byte) (TripRequest, error) {
	var env struct {
		InputMode InputMode `json:"input_mode"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.InputMode {
	case ModeFlightNumber:
		var r FlightNumberTripRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	case ModeRouteSearch:
		var r RouteSearchTripRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, env.InputMode)
	}
}
