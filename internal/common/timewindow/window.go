// Package timewindow computes the half-open creation-time windows used to
// select contacts for a reminder stage.
package timewindow

import (
	"fmt"
	"time"

	"lead-funnel/internal/models"
)

// Window is the half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// StartMillis and EndMillis are the epoch-millisecond bounds sent to the directory.
func (w Window) StartMillis() int64 { return w.Start.UnixMilli() }
func (w Window) EndMillis() int64   { return w.End.UnixMilli() }

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}

// For returns the window "exactly offset units before now, one unit wide".
//
// Day windows are aligned to UTC midnight, so every call within the same UTC
// calendar day yields identical bounds. Minute windows are plain offsets from
// now and are not aligned.
func For(now time.Time, offset int, unit models.TimeUnit) (Window, error) {
	if offset < 0 {
		return Window{}, fmt.Errorf("offset must not be negative: %d", offset)
	}

	switch unit {
	case models.UnitDay:
		now = now.UTC()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		start := midnight.AddDate(0, 0, -offset)
		return Window{Start: start, End: start.AddDate(0, 0, 1)}, nil
	case models.UnitMinute:
		start := now.UTC().Add(-time.Duration(offset) * time.Minute)
		return Window{Start: start, End: start.Add(time.Minute)}, nil
	default:
		return Window{}, fmt.Errorf("unsupported time unit %q", unit)
	}
}
