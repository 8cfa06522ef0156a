// Package analytics computes training-volume statistics from snapshots of finished workouts.
//
// Every reducer in this package is a pure function of its inputs: it never
// mutates the records it receives and holds no state between calls, so the same
// snapshot always yields the same result and reducers may run concurrently.
package analytics

import (
	"time"

	"example.com/trainingstats/internal/domain"
)

// Window is the half-open interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Includes reports whether the record is finished and started inside the window.
func (w Window) Includes(record domain.WorkoutRecord) bool {
	return record.Finished() && w.Contains(record.Start)
}

// LastDays returns [now-days, now).
func LastDays(now time.Time, days int) Window {
	return Window{Start: now.AddDate(0, 0, -days), End: now}
}

// Calendar carries the locale-dependent rules for calendar periods.
type Calendar struct {
	Location     *time.Location
	FirstWeekday time.Weekday
}

// DefaultCalendar uses UTC and weeks starting on Monday.
func DefaultCalendar() Calendar {
	return Calendar{Location: time.UTC, FirstWeekday: time.Monday}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Calendar) midnight(t time.Time) time.Time {
	t = t.In(c.location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.location())
}

// StartOfWeek returns midnight of the first weekday of the week containing t.
func (c Calendar) StartOfWeek(t time.Time) time.Time {
	day := c.midnight(t)
	offset := (int(day.Weekday()) - int(c.FirstWeekday) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns midnight of the first day of the month containing t.
func (c Calendar) StartOfMonth(t time.Time) time.Time {
	t = t.In(c.location())
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, c.location())
}

// Period selects a calendar period for comparisons.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// CurrentAndPrevious returns the period containing now, truncated at now, and the full period before it.
func (c Calendar) CurrentAndPrevious(period Period, now time.Time) (Window, Window) {
	var start, previousStart time.Time
	switch period {
	case PeriodMonth:
		start = c.StartOfMonth(now)
		previousStart = start.AddDate(0, -1, 0)
	default:
		start = c.StartOfWeek(now)
		previousStart = start.AddDate(0, 0, -7)
	}
	return Window{Start: start, End: now}, Window{Start: previousStart, End: start}
}
