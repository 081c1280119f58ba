// Package cadence computes recurring weekly occurrences for campaigns.
// All arithmetic is done in UTC so results are stable across the run.
package cadence

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const daysPerWeek = 7

// Unparsable times fall back to 19:00: an evening slot is a sane default
// for hospitality posts, where midnight would silently bury the content.
const (
	fallbackHour   = 19
	fallbackMinute = 0
)

// ClampWeekday clamps a raw weekday number to [0,6], 0 being Sunday.
// NaN clamps to 0.
func ClampWeekday(raw float64) int {
	if math.IsNaN(raw) {
		return 0
	}
	day := int(raw)
	if day < 0 {
		return 0
	}
	if day > 6 {
		return 6
	}
	return day
}

// ParseClock parses an "HH:MM" string into hour and minute components,
// falling back to 19:00 for anything unparsable or out of range.
func ParseClock(clock string) (hour, minute int) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return fallbackHour, fallbackMinute
	}

	h, hourErr := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, minuteErr := strconv.Atoi(strings.TrimSpace(parts[1]))
	if hourErr != nil || minuteErr != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return fallbackHour, fallbackMinute
	}
	return h, m
}

// FirstOccurrenceAfter computes the first instant on the requested weekday
// at the given "HH:MM" clock that is neither before start nor at/before now.
func FirstOccurrenceAfter(start time.Time, weekday int, clock string, now time.Time) time.Time {
	hour, minute := ParseClock(clock)
	return FirstOccurrence(start, weekday, hour, minute, now)
}

// FirstOccurrence computes the first qualifying occurrence from explicit
// hour/minute components. The result never precedes the nominal start date
// and is always strictly after now.
func FirstOccurrence(start time.Time, weekday, hour, minute int, now time.Time) time.Time {
	weekday = ClampWeekday(float64(weekday))
	start = start.UTC()

	occ := time.Date(start.Year(), start.Month(), start.Day(), hour, minute, 0, 0, time.UTC)
	if occ.Before(start) {
		occ = occ.AddDate(0, 0, daysPerWeek)
	}

	delta := (weekday - int(occ.Weekday()) + daysPerWeek) % daysPerWeek
	occ = occ.AddDate(0, 0, delta)

	for !occ.After(now) {
		occ = occ.AddDate(0, 0, daysPerWeek)
	}
	return occ
}

// Next returns the following occurrence, one week later.
func Next(occ time.Time) time.Time {
	return occ.AddDate(0, 0, daysPerWeek)
}

// Horizon returns the furthest instant occurrences are generated up to:
// now plus weeksAhead weeks, extended to displayEnd when the override is
// set, in the future and later than the computed horizon.
func Horizon(now time.Time, weeksAhead int, displayEnd *time.Time) time.Time {
	h := now.UTC().AddDate(0, 0, weeksAhead*daysPerWeek)
	if displayEnd != nil && displayEnd.After(now) && displayEnd.After(h) {
		return displayEnd.UTC()
	}
	return h
}
