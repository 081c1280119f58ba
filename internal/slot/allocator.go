// Package slot allocates same-day posting slots. Occupancy is an explicit
// arena owned by one materialisation run; it is not safe for concurrent use.
package slot

import (
	"fmt"
	"time"

	"github.com/cheersai/campaign-engine/internal/domain"
)

const (
	// StepMinutes is the probe increment when a requested slot is taken.
	StepMinutes = 30

	minutesPerDay = 24 * 60
	dayKeyLayout  = "2006-01-02"
)

// Occupancy tracks taken posting slots per (platform, UTC calendar day)
// bucket as minutes since midnight. Buckets are per-platform, so different
// platforms can share a wall-clock slot.
type Occupancy struct {
	taken map[string]map[int]struct{}
}

// NewOccupancy creates an empty occupancy arena.
func NewOccupancy() *Occupancy {
	return &Occupancy{taken: make(map[string]map[int]struct{})}
}

// Seed marks an existing post's slot as taken without probing.
func (o *Occupancy) Seed(platform string, at time.Time) {
	at = at.UTC()
	o.bucket(platform, at)[at.Hour()*60+at.Minute()] = struct{}{}
}

// Taken reports whether the exact minute of at is occupied for platform.
func (o *Occupancy) Taken(platform string, at time.Time) bool {
	at = at.UTC()
	key := platform + "|" + at.Format(dayKeyLayout)
	minutes, ok := o.taken[key]
	if !ok {
		return false
	}
	_, hit := minutes[at.Hour()*60+at.Minute()]
	return hit
}

// Reserve finds the next free slot at or after requested, probing forward
// in StepMinutes increments within the same UTC day. On success the chosen
// minute is marked occupied and returned with seconds and nanoseconds
// zeroed. When no minute of the day remains, it fails with
// domain.ErrDayFull.
func (o *Occupancy) Reserve(platform string, requested time.Time) (time.Time, error) {
	requested = requested.UTC()
	minutes := o.bucket(platform, requested)

	minute := requested.Hour()*60 + requested.Minute()
	for {
		if _, occupied := minutes[minute]; !occupied {
			break
		}
		minute += StepMinutes
		if minute >= minutesPerDay {
			return time.Time{}, fmt.Errorf("%w: %s on %s", domain.ErrDayFull,
				platform, requested.Format(dayKeyLayout))
		}
	}

	minutes[minute] = struct{}{}
	return time.Date(requested.Year(), requested.Month(), requested.Day(),
		minute/60, minute%60, 0, 0, time.UTC), nil
}

func (o *Occupancy) bucket(platform string, at time.Time) map[int]struct{} {
	key := platform + "|" + at.Format(dayKeyLayout)
	minutes, ok := o.taken[key]
	if !ok {
		minutes = make(map[int]struct{})
		o.taken[key] = minutes
	}
	return minutes
}
