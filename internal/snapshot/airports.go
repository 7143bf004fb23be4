package snapshot

import (
	"strings"

	"airbridge/internal/model"
)

// DefaultTimings is the global baseline applied to every airport field that
// has no override.
func DefaultTimings() model.AirportTimings {
	return model.AirportTimings{
		CurbToCheckin:            5,
		ParkingToTerminal:        10,
		TransitStationToTerminal: 12,
		CheckinToSecurity:        5,
		Security:                 25,
		SecurityToGate:           10,
	}
}

// airportOverride adjusts the fields that vary meaningfully between large
// hubs. Everything else stays at the defaults.
type airportOverride struct {
	security int
	parking  int
	transit  int
}

var airportOverrides = map[string]airportOverride{
	"ATL": {security: 35, parking: 12, transit: 15},
	"ORD": {security: 32, parking: 12, transit: 14},
	"LAX": {security: 32, parking: 15, transit: 18},
	"JFK": {security: 30, parking: 12, transit: 15},
	"DFW": {security: 28, parking: 12, transit: 14},
	"DEN": {security: 30, parking: 15, transit: 12},
	"SFO": {security: 28, parking: 10, transit: 15}, // BART station walk
	"SEA": {security: 30, parking: 12, transit: 10},
}

// TimingsFor returns the timing profile for an IATA code. Codes are trimmed
// and case-insensitive; unknown or empty codes get the pure defaults.
func TimingsFor(code string) model.AirportTimings {
	t := DefaultTimings()
	ov, ok := airportOverrides[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return t
	}
	t.Security = ov.security
	t.ParkingToTerminal = ov.parking
	t.TransitStationToTerminal = ov.transit
	return t
}
