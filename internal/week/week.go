// Package week resolves calendar dates to week keys. A week key is the
// ISO date (YYYY-MM-DD) of the Monday that starts the week, so every
// day from Monday through Sunday maps to the same key.
package week

import (
	"fmt"
	"time"
)

const keyLayout = "2006-01-02"

// Days lists the days of a planner week in order, Monday first.
var Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Start returns the Monday on or before t, truncated to midnight in t's location.
func Start(t time.Time) time.Time {
	// time.Weekday counts Sunday as 0; a Sunday belongs to the week
	// that started six days earlier.
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Key returns the week key for the week containing t.
func Key(t time.Time) string {
	return Start(t).Format(keyLayout)
}

// CurrentKey returns the week key for the current week.
func CurrentKey() string {
	return Key(time.Now())
}

// ParseKey validates a week key and returns the Monday it names.
// Keys that name a non-Monday date are rejected.
func ParseKey(key string) (time.Time, error) {
	t, err := time.Parse(keyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week key %q: %w", key, err)
	}
	if t.Weekday() != time.Monday {
		return time.Time{}, fmt.Errorf("week key %q is not a Monday", key)
	}
	return t, nil
}

// DayIndex returns the position of a day name within the week, Monday
// being 0. The second return is false for unknown names.
func DayIndex(day string) (int, bool) {
	for i, d := range Days {
		if d == day {
			return i, true
		}
	}
	return 0, false
}

// DateFor returns the calendar date of a named day within the week.
func DateFor(weekKey, day string) (time.Time, error) {
	start, err := ParseKey(weekKey)
	if err != nil {
		return time.Time{}, err
	}
	idx, ok := DayIndex(day)
	if !ok {
		return time.Time{}, fmt.Errorf("unknown day %q", day)
	}
	return start.AddDate(0, 0, idx), nil
}
