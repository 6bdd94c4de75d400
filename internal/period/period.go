// Package period maps symbolic reporting periods onto calendar intervals.
package period

import "time"

// Supported period names
const (
	Today     = "today"
	Yesterday = "yesterday"
	Week      = "week"
	LastWeek  = "lastweek"
	Month     = "month"
	LastMonth = "lastmonth"
)

var names = []string{Today, Yesterday, Week, LastWeek, Month, LastMonth}

// Names returns the supported period names in display order
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Interval is a closed time range; To is the last millisecond included
type Interval struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t lies inside the interval, bounds included
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.From) && !t.After(iv.To)
}

// Resolve returns the interval named by name relative to now, using now's
// location for calendar arithmetic. Weeks start on Monday. ok is false for
// unknown names.
func Resolve(name string, now time.Time) (iv Interval, ok bool) {
	day := startOfDay(now)

	switch name {
	case Today:
		return span(day, day.AddDate(0, 0, 1)), true
	case Yesterday:
		return span(day.AddDate(0, 0, -1), day), true
	case Week:
		monday := startOfWeek(day)
		return span(monday, monday.AddDate(0, 0, 7)), true
	case LastWeek:
		monday := startOfWeek(day)
		return span(monday.AddDate(0, 0, -7), monday), true
	case Month:
		return month(day.Year(), day.Month(), day.Location()), true
	case LastMonth:
		// month 0 normalises to December of the previous year
		return month(day.Year(), day.Month()-1, day.Location()), true
	}
	return Interval{}, false
}

// month spans the first to the last calendar day of y-m. Day 0 of the
// following month normalises to the last day of this one.
func month(y int, m time.Month, loc *time.Location) Interval {
	first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	last := time.Date(first.Year(), first.Month()+1, 0, 23, 59, 59, int(999*time.Millisecond), loc)
	return Interval{From: first, To: last}
}

// span turns the half-open [start, next) into a closed interval
func span(start, next time.Time) Interval {
	return Interval{From: start, To: next.Add(-time.Millisecond)}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfWeek(day time.Time) time.Time {
	// Weekday counts from Sunday; shift so Monday is 0
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
