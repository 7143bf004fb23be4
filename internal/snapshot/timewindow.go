package snapshot

import (
	"time"

	"airbridge/internal/model"
)

// windowRange is a [start, end] span in minutes since midnight.
type windowRange struct {
	start, end int
}

var windowRanges = map[model.DepartureTimeWindow]windowRange{
	model.WindowMorning:   {5 * 60, 11 * 60},
	model.WindowMidday:    {11 * 60, 14 * 60},
	model.WindowAfternoon: {14 * 60, 17 * 60},
	model.WindowEvening:   {17 * 60, 21 * 60},
}

// Departure time used when no window applies (flight_number mode, not_sure,
// or a missing window): 10:00 UTC on the departure date.
const defaultDepartureMinute = 10 * 60

// lateNightMinute anchors late_night to 01:30 the next day. This is a fixed
// anchor, not the generic midpoint formula.
const lateNightMinute = 90

// ResolveDeparture maps a departure date plus a coarse time window to a
// representative scheduled departure in UTC. For the ranged windows the
// representative time is the range midpoint rounded half-up to the nearest
// 30-minute boundary; rounding past 24:00 rolls to the next day.
func ResolveDeparture(day time.Time, mode model.InputMode, window model.DepartureTimeWindow) time.Time {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	if mode != model.ModeRouteSearch || window == "" || window == model.WindowNotSure {
		return day.Add(defaultDepartureMinute * time.Minute)
	}
	if window == model.WindowLateNight {
		return day.AddDate(0, 0, 1).Add(lateNightMinute * time.Minute)
	}
	r, ok := windowRanges[window]
	if !ok {
		return day.Add(defaultDepartureMinute * time.Minute)
	}
	mid := (r.start + r.end) / 2
	rounded := (mid + 15) / 30 * 30
	if rounded >= 24*60 {
		return day.AddDate(0, 0, 1).Add(time.Duration(rounded-24*60) * time.Minute)
	}
	return day.Add(time.Duration(rounded) * time.Minute)
}
