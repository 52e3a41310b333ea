// Package dates provides calendar helpers for the YYYY-MM-DD dates used
// throughout the planner. Pure functions, no state.
package dates

import "time"

// ISO is the calendar date layout used on the wire and in storage.
const ISO = "2006-01-02"

// Parse parses a YYYY-MM-DD calendar date. time.Parse rejects malformed
// strings and impossible dates such as 2024-02-30.
func Parse(s string) (time.Time, error) {
	return time.Parse(ISO, s)
}

// Format renders a time as YYYY-MM-DD.
func Format(t time.Time) string { return t.Format(ISO) }

// AddDays advances a date by n calendar days.
func AddDays(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) }

// WeekdayIndex returns the weekday index with Sunday=0 .. Saturday=6.
func WeekdayIndex(t time.Time) int { return int(t.Weekday()) }

// Labels returns the long and short display labels for a date's weekday,
// e.g. ("Monday", "Mon").
func Labels(t time.Time) (long, short string) {
	long = t.Weekday().String()
	return long, long[:3]
}
