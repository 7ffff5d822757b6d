package services

import (
	"time"

	"reserva-backend/models"
)

// Window is a serving period in minutes since midnight, half-open [Start, End).
type Window struct {
	Name     string
	Start    int
	End      int
	Capacity int
}

// Contains reports whether the clock minute falls inside the window.
func (w Window) Contains(minute int) bool {
	return minute >= w.Start && minute < w.End
}

// Overlaps reports whether [start, end) intersects the window.
func (w Window) Overlaps(start, end int) bool {
	return start < w.End && end > w.Start
}

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// ParseClock parses a 24-hour "HH:MM" time of day into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// weekdayMondayZero maps a date onto the calendar convention used by
// Settings.OpenDays: Monday=0 .. Sunday=6.
func weekdayMondayZero(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// overlapsInterval reports whether an existing reservation's occupancy
// intersects [start, end) in minutes on the same date.
func overlapsInterval(r *models.Reservation, start, end int) bool {
	rs, err := ParseClock(r.Time)
	if err != nil {
		return false
	}
	return rs < end && rs+r.Duration > start
}

// CheckAvailability decides whether a request for guests at clock on date
// fits the operating calendar and the period's aggregate capacity. It is a
// pure function of the settings snapshot and the ledger slice passed in;
// existing must hold the reservations already recorded for that date.
// On acceptance it returns the resolved serving window.
func CheckAvailability(snap SettingsSnapshot, existing []models.Reservation, date string, clock string, guests int) (Window, error) {
	day, err := ParseDate(date)
	if err != nil {
		return Window{}, invalidf("date", "must be YYYY-MM-DD")
	}
	minute, err := ParseClock(clock)
	if err != nil {
		return Window{}, invalidf("time", "must be HH:MM")
	}
	if guests < 1 {
		return Window{}, invalidf("guests", "must be at least 1")
	}

	if !snap.OpenDays[weekdayMondayZero(day)] {
		return Window{}, ErrClosedDay
	}

	var period Window
	switch {
	case snap.Lunch.Contains(minute):
		period = snap.Lunch
	case snap.Dinner.Contains(minute):
		period = snap.Dinner
	default:
		return Window{}, ErrOutsideHours
	}

	// Aggregate every active reservation whose occupancy touches the
	// period window, then add the incoming party. Exactly at the limit
	// is still accepted.
	booked := guests
	for i := range existing {
		r := &existing[i]
		if !r.IsActive() {
			continue
		}
		if overlapsInterval(r, period.Start, period.End) {
			booked += r.Guests
		}
	}
	if booked > period.Capacity {
		return Window{}, ErrCapacityExceeded
	}

	return period, nil
}
