package model

import (
	"fmt"
	"time"
)

// ClockTime is a time of day expressed as minutes since midnight.
// End times may be EndOfDay (24:00); "00:00" used as an end means end of day.
type ClockTime int

// EndOfDay is midnight treated as the end of the same day.
const EndOfDay ClockTime = 24 * 60

// ParseClock parses an "HH:MM" string.
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return ClockTime(h*60 + m), nil
}

// String renders as "HH:MM". EndOfDay renders as "00:00" to match wire data.
func (c ClockTime) String() string {
	if c == EndOfDay {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Hours returns the clock time as fractional hours.
func (c ClockTime) Hours() float64 {
	return float64(c) / 60.0
}

// Window is a same-day time window.
type Window struct {
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// NewWindow builds a window, mapping an end of 00:00 to end of day.
func NewWindow(start, end ClockTime) Window {
	if end == 0 {
		end = EndOfDay
	}
	return Window{Start: start, End: end}
}

// ParseWindow parses "HH:MM"-"HH:MM" strings into a window.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	return NewWindow(s, e), nil
}

// Duration returns the window length in minutes.
func (w Window) Duration() ClockTime {
	return w.End - w.Start
}

// Hours returns the window length in fractional hours.
func (w Window) Hours() float64 {
	return w.Duration().Hours()
}

// Overlaps checks whether two windows overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start < other.End && other.Start < w.End
}

// Contains checks whether the window fully covers another.
func (w Window) Contains(other Window) bool {
	return w.Start <= other.Start && other.End <= w.End
}

// Valid reports whether the window has positive length.
func (w Window) Valid() bool {
	return w.End > w.Start
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// Day is a day of the week.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

var weekDays = [7]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekDays returns the days of the roster week, Monday first.
func WeekDays() [7]Day {
	return weekDays
}

// Order returns the day's position in the roster week (Monday = 0), or -1.
func (d Day) Order() int {
	for i, day := range weekDays {
		if day == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d names a day of the week.
func (d Day) Valid() bool {
	return d.Order() >= 0
}

// DateIn resolves the day to a calendar date within the week starting at weekStart.
func (d Day) DateIn(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, d.Order())
}
