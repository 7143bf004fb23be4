package snapshot

import (
	"testing"
	"time"

	"airbridge/internal/model"
)

var day = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time { return time.Date(2026, 9, 15, h, m, 0, 0, time.UTC) }

func TestResolveDepartureWindows(t *testing.T) {
	cases := []struct {
		window model.DepartureTimeWindow
		want   time.Time
	}{
		{model.WindowMorning, at(8, 0)},
		{model.WindowMidday, at(12, 30)},
		{model.WindowAfternoon, at(15, 30)},
		{model.WindowEvening, at(19, 0)},
	}
	for _, c := range cases {
		got := ResolveDeparture(day, model.ModeRouteSearch, c.window)
		if !got.Equal(c.want) {
			t.Errorf("%s: want %v, got %v", c.window, c.want, got)
		}
	}
}

func TestResolveDepartureLateNightRollsToNextDay(t *testing.T) {
	got := ResolveDeparture(day, model.ModeRouteSearch, model.WindowLateNight)
	want := time.Date(2026, 9, 16, 1, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("late_night: want %v, got %v", want, got)
	}
}

func TestResolveDepartureDefaults(t *testing.T) {
	want := at(10, 0)
	if got := ResolveDeparture(day, model.ModeFlightNumber, ""); !got.Equal(want) {
		t.Fatalf("flight_number mode: want %v, got %v", want, got)
	}
	if got := ResolveDeparture(day, model.ModeRouteSearch, model.WindowNotSure); !got.Equal(want) {
		t.Fatalf("not_sure: want %v, got %v", want, got)
	}
	if got := ResolveDeparture(day, model.ModeRouteSearch, ""); !got.Equal(want) {
		t.Fatalf("missing window: want %v, got %v", want, got)
	}
	// flight_number mode ignores any window the caller left populated
	if got := ResolveDeparture(day, model.ModeFlightNumber, model.WindowEvening); !got.Equal(want) {
		t.Fatalf("flight_number with window: want %v, got %v", want, got)
	}
}
