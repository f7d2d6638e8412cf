package domain

import "errors"

var (
	// ErrTimerUnavailable indicates the periodic timer could not be obtained.
	ErrTimerUnavailable = errors.New("periodic timer is unavailable")

	// ErrInvalidTimeOfDay indicates a time of day that cannot be parsed.
	ErrInvalidTimeOfDay = errors.New("time of day must be HH:MM")

	// ErrThemeUnreadable indicates the sink cannot report the current theme.
	ErrThemeUnreadable = errors.New("current theme cannot be read from this sink")

	// ErrDisposed indicates the scheduler has already been disposed.
	ErrDisposed = errors.New("scheduler is disposed")
)
