package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPreference marks preference values that fail their domain
// constraint. Wrapped by the specific validators so callers can map the
// whole family to an invalid-input response.
var ErrInvalidPreference = errors.New("invalid preference value")

type InputMode string

const (
	ModeFlightNumber InputMode = "flight_number"
	ModeRouteSearch  InputMode = "route_search"
)

type TransportMode string

const (
	TransportRideshare TransportMode = "rideshare"
	TransportDriving   TransportMode = "driving"
	TransportTrain     TransportMode = "train"
	TransportBus       TransportMode = "bus"
	TransportOther     TransportMode = "other"
)

func (m TransportMode) Valid() bool {
	switch m {
	case TransportRideshare, TransportDriving, TransportTrain, TransportBus, TransportOther:
		return true
	}
	return false
}

type ConfidenceProfile string

const (
	ProfileSafety ConfidenceProfile = "safety"
	ProfileSweet  ConfidenceProfile = "sweet"
	ProfileRisk   ConfidenceProfile = "risk"
)

func (p ConfidenceProfile) Valid() bool {
	switch p {
	case ProfileSafety, ProfileSweet, ProfileRisk:
		return true
	}
	return false
}

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

type DepartureTimeWindow string

const (
	WindowMorning   DepartureTimeWindow = "morning"
	WindowMidday    DepartureTimeWindow = "midday"
	WindowAfternoon DepartureTimeWindow = "afternoon"
	WindowEvening   DepartureTimeWindow = "evening"
	WindowLateNight DepartureTimeWindow = "late_night"
	WindowNotSure   DepartureTimeWindow = "not_sure"
)

func (w DepartureTimeWindow) Valid() bool {
	switch w {
	case WindowMorning, WindowMidday, WindowAfternoon, WindowEvening, WindowLateNight, WindowNotSure:
		return true
	}
	return false
}

// TripPreferences carries the user-chosen knobs that feed the lead-time
// arithmetic. Values are set-validated at construction; out-of-range values
// are rejected, never clamped.
type TripPreferences struct {
	TransportMode         TransportMode     `json:"transport_mode"`
	ConfidenceProfile     ConfidenceProfile `json:"confidence_profile"`
	BagCount              int               `json:"bag_count"`
	TravelingWithChildren bool              `json:"traveling_with_children"`
	ExtraTimeMinutes      int               `json:"extra_time_minutes"`
}

func (p TripPreferences) Validate() error {
	if !p.TransportMode.Valid() {
		return fmt.Errorf("%w: transport_mode %q", ErrInvalidPreference, p.TransportMode)
	}
	if !p.ConfidenceProfile.Valid() {
		return fmt.Errorf("%w: confidence_profile %q", ErrInvalidPreference, p.ConfidenceProfile)
	}
	if p.BagCount < 0 || p.BagCount > 3 {
		return fmt.Errorf("%w: bag_count %d must be between 0 and 3", ErrInvalidPreference, p.BagCount)
	}
	if p.ExtraTimeMinutes != 0 && p.ExtraTimeMinutes != 15 && p.ExtraTimeMinutes != 30 {
		return fmt.Errorf("%w: extra_time_minutes %d must be one of 0, 15, 30", ErrInvalidPreference, p.ExtraTimeMinutes)
	}
	return nil
}

// PreferenceOverrides is the partial form used on recompute. Nil fields keep
// the stored trip's value.
type PreferenceOverrides struct {
	TransportMode         *TransportMode     `json:"transport_mode,omitempty"`
	ConfidenceProfile     *ConfidenceProfile `json:"confidence_profile,omitempty"`
	BagCount              *int               `json:"bag_count,omitempty"`
	TravelingWithChildren *bool              `json:"traveling_with_children,omitempty"`
	ExtraTimeMinutes      *int               `json:"extra_time_minutes,omitempty"`
}

// Validate checks only the fields that are present. Runs before Apply so a
// bad override rejects the whole request instead of half-merging.
func (o *PreferenceOverrides) Validate() error {
	if o == nil {
		return nil
	}
	if o.TransportMode != nil && !o.TransportMode.Valid() {
		return fmt.Errorf("%w: transport_mode %q", ErrInvalidPreference, *o.TransportMode)
	}
	if o.ConfidenceProfile != nil && !o.ConfidenceProfile.Valid() {
		return fmt.Errorf("%w: confidence_profile %q", ErrInvalidPreference, *o.ConfidenceProfile)
	}
	if o.BagCount != nil && (*o.BagCount < 0 || *o.BagCount > 3) {
		return fmt.Errorf("%w: bag_count %d must be between 0 and 3", ErrInvalidPreference, *o.BagCount)
	}
	if o.ExtraTimeMinutes != nil {
		if v := *o.ExtraTimeMinutes; v != 0 && v != 15 && v != 30 {
			return fmt.Errorf("%w: extra_time_minutes %d must be one of 0, 15, 30", ErrInvalidPreference, v)
		}
	}
	return nil
}

// Apply returns a copy of base with the non-nil override fields set.
func (o *PreferenceOverrides) Apply(base TripPreferences) TripPreferences {
	out := base
	if o == nil {
		return out
	}
	if o.TransportMode != nil {
		out.TransportMode = *o.TransportMode
	}
	if o.ConfidenceProfile != nil {
		out.ConfidenceProfile = *o.ConfidenceProfile
	}
	if o.BagCount != nil {
		out.BagCount = *o.BagCount
	}
	if o.TravelingWithChildren != nil {
		out.TravelingWithChildren = *o.TravelingWithChildren
	}
	if o.ExtraTimeMinutes != nil {
		out.ExtraTimeMinutes = *o.ExtraTimeMinutes
	}
	return out
}

// TripContext is the normalized trip record produced by intake. Immutable
// once stored; recompute overrides are applied to a copy.
type TripContext struct {
	TripID        string    `json:"trip_id"`
	InputMode     InputMode `json:"input_mode"`
	DepartureDate string    `json:"departure_date"` // YYYY-MM-DD
	HomeAddress   string    `json:"home_address"`
	CreatedAt     time.Time `json:"created_at"`
	Status        string    `json:"status"`

	// flight_number mode
	FlightNumber string `json:"flight_number,omitempty"`

	// route_search mode
	Airline             string              `json:"airline,omitempty"`
	OriginAirport       string              `json:"origin_airport,omitempty"`
	DestinationAirport  string              `json:"destination_airport,omitempty"`
	DepartureTimeWindow DepartureTimeWindow `json:"departure_time_window,omitempty"`

	Preferences TripPreferences `json:"preferences"`
}

// DepartureDay parses the trip's departure date. Intake guarantees the
// format, so errors only show up on hand-built contexts.
func (t TripContext) DepartureDay() (time.Time, error) {
	return time.Parse("2006-01-02", t.DepartureDate)
}

// AirportTimings is the per-airport timing profile for journey segments.
// All durations are minutes.
type AirportTimings struct {
	CurbToCheckin            int `json:"curb_to_checkin_minutes"`
	ParkingToTerminal        int `json:"parking_to_terminal_minutes"`
	TransitStationToTerminal int `json:"transit_station_to_terminal_minutes"`
	CheckinToSecurity        int `json:"checkin_to_security_minutes"`
	Security                 int `json:"security_minutes"`
	SecurityToGate           int `json:"security_to_gate_minutes"`
}

// CheckInBuffer is the walking overhead around check-in and security:
// curb to check-in, check-in to security, security exit to gate.
func (a AirportTimings) CheckInBuffer() int {
	return a.CurbToCheckin + a.CheckinToSecurity + a.SecurityToGate
}

// FlightSnapshot bundles the schedule and airport timings used by one
// recommendation computation. Built fresh per request, never persisted.
type FlightSnapshot struct {
	ScheduledDeparture     time.Time      `json:"scheduled_departure"`
	ScheduledArrival       *time.Time     `json:"scheduled_arrival,omitempty"`
	DepartureTerminal      string         `json:"departure_terminal,omitempty"`
	OriginAirportCode      string         `json:"origin_airport_code,omitempty"`
	DestinationAirportCode string         `json:"destination_airport_code,omitempty"`
	AirportTimings         AirportTimings `json:"airport_timings"`
}

type SegmentDetail struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	DurationMinutes int    `json:"duration_minutes"`
	Advice          string `json:"advice"`
}

type RecommendationRequest struct {
	TripID string `json:"trip_id"`
}

type RecommendationRecomputeRequest struct {
	TripID              string               `json:"trip_id"`
	Reason              string               `json:"reason,omitempty"`
	PreferenceOverrides *PreferenceOverrides `json:"preference_overrides,omitempty"`
}

type RecommendationResponse struct {
	TripID          string          `json:"trip_id"`
	LeaveHomeAt     time.Time       `json:"leave_home_at"`
	Confidence      ConfidenceLevel `json:"confidence"`
	ConfidenceScore float64         `json:"confidence_score"`
	Explanation     string          `json:"explanation"`
	Segments        []SegmentDetail `json:"segments"`
	ComputedAt      time.Time       `json:"computed_at"`
}

type SubscriptionRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret"`
}

type Subscription struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret,omitempty"`
}
