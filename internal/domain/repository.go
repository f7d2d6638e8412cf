package domain

import (
	"encoding/json"
	"time"
)

// SettingsRepository is a secondary port that persists raw settings values.
// Each value is the JSON encoding of a single setting, which lets readers
// detect a stored value of the wrong type.
type SettingsRepository interface {
	Load() (map[string]json.RawMessage, error)
	// Save upserts the given keys and leaves other keys untouched.
	Save(values map[string]json.RawMessage) error
}

// ConfigStore is the scheduler's view of persisted configuration.
type ConfigStore interface {
	Schedule() ScheduleConfig
	Override() OverrideState
	SaveSchedule(cfg ScheduleConfig) error
	RecordManualOverride(at time.Time) error
	ClearSkipNextTransition() error
}

// ThemeSink applies a theme. Calls are idempotent.
type ThemeSink interface {
	SetTheme(isLight bool) error
}

// ThemeReader is implemented by sinks that can report the current theme.
type ThemeReader interface {
	IsLight() (bool, error)
}

// Clock supplies the current instant. The location of the returned time
// determines the local time of day.
type Clock interface {
	Now() time.Time
}

// PeriodicTimer invokes fn every interval until stopped.
type PeriodicTimer interface {
	Start(interval time.Duration, fn func()) error
	Stop() error
}
