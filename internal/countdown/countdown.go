// Package countdown computes the time remaining until a target instant and
// drives a once-per-second ticker over it.
package countdown

import (
	"errors"
	"fmt"
	"time"
)

// MaxOffset is the longest countdown that can be started from an offset.
const MaxOffset = 10 * 365 * 24 * time.Hour

// Offset validation errors.
var (
	ErrOffsetNegative = errors.New("offset values must not be negative")
	ErrOffsetTooLarge = errors.New("offset too large, the limit is 3650 days")
)

// Remaining is a whole-unit breakdown of a non-negative duration.
type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// State is one observation of a countdown.
type State struct {
	Target    time.Time
	Remaining Remaining
	Completed bool
}

// Offset is a duration-from-now expressed in display units.
type Offset struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Validate reports whether the offset has no negative unit and, in total,
// does not exceed MaxOffset. Each unit is bounded before summing, so
// Duration never overflows for a valid offset.
func (o Offset) Validate() error {
	units := []struct {
		n    int
		unit time.Duration
	}{
		{o.Days, 24 * time.Hour},
		{o.Hours, time.Hour},
		{o.Minutes, time.Minute},
		{o.Seconds, time.Second},
	}
	var total time.Duration
	for _, u := range units {
		if u.n < 0 {
			return ErrOffsetNegative
		}
		if int64(u.n) > int64(MaxOffset/u.unit) {
			return ErrOffsetTooLarge
		}
		total += time.Duration(u.n) * u.unit
	}
	if total > MaxOffset {
		return ErrOffsetTooLarge
	}
	return nil
}

// Duration returns the offset as a time.Duration. Only offsets that pass
// Validate are guaranteed not to overflow.
func (o Offset) Duration() time.Duration {
	return time.Duration(o.Days)*24*time.Hour +
		time.Duration(o.Hours)*time.Hour +
		time.Duration(o.Minutes)*time.Minute +
		time.Duration(o.Seconds)*time.Second
}

// Target converts the offset to an absolute instant relative to now.
// Callers do this once; ticks always compare against the returned instant.
func (o Offset) Target(now time.Time) time.Time {
	return now.Add(o.Duration())
}

// Compute returns the countdown state for target as observed at now.
// Sub-second remainders are truncated, never rounded up.
func Compute(target, now time.Time) State {
	if !target.After(now) {
		return State{Target: target, Completed: true}
	}
	left := int64(target.Sub(now) / time.Second)
	return State{
		Target: target,
		Remaining: Remaining{
			Days:    int(left / 86400),
			Hours:   int(left % 86400 / 3600),
			Minutes: int(left % 3600 / 60),
			Seconds: int(left % 60),
		},
	}
}

// Unit is a labelled display value.
type Unit struct {
	Label string
	Value string
}

// Units lists the display units of s. Days are shown only when non-zero;
// hours, minutes and seconds are always shown, zero-padded to two digits.
func Units(s State) []Unit {
	r := s.Remaining
	units := make([]Unit, 0, 4)
	if r.Days > 0 {
		units = append(units, Unit{Label: "Days", Value: fmt.Sprintf("%d", r.Days)})
	}
	return append(units,
		Unit{Label: "Hours", Value: fmt.Sprintf("%02d", r.Hours)},
		Unit{Label: "Minutes", Value: fmt.Sprintf("%02d", r.Minutes)},
		Unit{Label: "Seconds", Value: fmt.Sprintf("%02d", r.Seconds)},
	)
}

// String renders s as "3d 04:05:06", or "04:05:06" without days.
func String(s State) string {
	r := s.Remaining
	clock := fmt.Sprintf("%02d:%02d:%02d", r.Hours, r.Minutes, r.Seconds)
	if r.Days > 0 {
		return fmt.Sprintf("%dd %s", r.Days, clock)
	}
	return clock
}
