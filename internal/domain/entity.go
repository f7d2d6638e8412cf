package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TickInterval is how often the scheduler re-evaluates the light window.
const TickInterval = time.Minute

// TimeOfDay is an offset from local midnight in the range [0h, 24h).
type TimeOfDay time.Duration

// NewTimeOfDay builds a TimeOfDay from an hour/minute pair, wrapping both
// components into range so that negative or oversized inputs stay valid.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	hour = ((hour % 24) + 24) % 24
	minute = ((minute % 60) + 60) % 60
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// TimeOfDayOf returns the wall-clock time of day of t in t's own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	d := time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
	return TimeOfDay(d)
}

// ParseTimeOfDay parses "HH:MM". Out-of-range components are rejected rather
// than wrapped, since they usually indicate a typo.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	h, ok := parseClockField(hh, 23)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	m, ok := parseClockField(mm, 59)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return NewTimeOfDay(h, m), nil
}

// parseClockField accepts one or two ASCII digits no greater than limit.
func parseClockField(s string, limit int) (int, bool) {
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > limit {
		return 0, false
	}
	return n, true
}

// Hour returns the hour component (0-23).
func (t TimeOfDay) Hour() int {
	return int(time.Duration(t) / time.Hour)
}

// Minute returns the minute component (0-59).
func (t TimeOfDay) Minute() int {
	return int(time.Duration(t)%time.Hour) / int(time.Minute)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// ScheduleConfig is the user-editable part of the schedule.
type ScheduleConfig struct {
	Enabled    bool
	LightStart TimeOfDay
	LightEnd   TimeOfDay
}

// OverrideState tracks the user's last manual theme change.
type OverrideState struct {
	LastManualToggle   *time.Time
	SkipNextTransition bool
}

// EvaluationState is the scheduler's memory of its previous evaluation.
// It is never persisted.
type EvaluationState struct {
	HasBaseline       bool
	LastShouldBeLight bool
}

// Snapshot represents a view of the scheduler for clients (CLI/HTTP).
type Snapshot struct {
	Config        ScheduleConfig
	Override      OverrideState
	ShouldBeLight bool
	Disposed      bool
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() ScheduleConfig {
	return ScheduleConfig{
		Enabled:    false,
		LightStart: NewTimeOfDay(9, 0),
		LightEnd:   NewTimeOfDay(17, 0),
	}
}
