package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"darkmode-scheduler/internal/domain"
	"darkmode-scheduler/internal/logging"
)

// Persisted setting keys.
const (
	KeyScheduleEnabled      = "ScheduleEnabled"
	KeyLightModeStartHour   = "LightModeStartHour"
	KeyLightModeStartMinute = "LightModeStartMinute"
	KeyLightModeEndHour     = "LightModeEndHour"
	KeyLightModeEndMinute   = "LightModeEndMinute"
	KeyLastManualToggleTime = "LastManualToggleTime"
	KeySkipNextTransition   = "SkipNextTransition"
)

// Store holds the schedule configuration and override bookkeeping in memory
// and writes every change through to a SettingsRepository. It is the single
// writer of persisted settings within a process.
type Store struct {
	repo domain.SettingsRepository

	mu       sync.RWMutex
	schedule domain.ScheduleConfig
	override domain.OverrideState
}

var _ domain.ConfigStore = (*Store)(nil)

// NewStore loads the current settings from repo. Load failures are logged and
// leave every setting at its default.
func NewStore(repo domain.SettingsRepository) (*Store, error) {
	if repo == nil {
		return nil, errors.New("settings repository is required")
	}
	s := &Store{repo: repo}
	s.schedule, s.override = s.read()
	return s, nil
}

func (s *Store) read() (domain.ScheduleConfig, domain.OverrideState) {
	values, err := s.repo.Load()
	if err != nil {
		logging.Warnf("load settings: %v (using defaults)", err)
		values = nil
	}

	def := domain.DefaultConfig()
	schedule := domain.ScheduleConfig{
		Enabled: readBool(values, KeyScheduleEnabled, def.Enabled),
		LightStart: domain.NewTimeOfDay(
			readInt(values, KeyLightModeStartHour, def.LightStart.Hour()),
			readInt(values, KeyLightModeStartMinute, def.LightStart.Minute()),
		),
		LightEnd: domain.NewTimeOfDay(
			readInt(values, KeyLightModeEndHour, def.LightEnd.Hour()),
			readInt(values, KeyLightModeEndMinute, def.LightEnd.Minute()),
		),
	}
	override := domain.OverrideState{
		LastManualToggle:   readInstant(values, KeyLastManualToggleTime),
		SkipNextTransition: readBool(values, KeySkipNextTransition, false),
	}
	return schedule, override
}

// Reload re-reads persisted settings and reports whether anything changed.
// The lock is held across the read so a concurrent write cannot be
// overwritten by an older snapshot.
func (s *Store) Reload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	schedule, override := s.read()
	changed := schedule != s.schedule || !sameOverride(override, s.override)
	s.schedule = schedule
	s.override = override
	return changed
}

// Schedule returns the current schedule configuration.
func (s *Store) Schedule() domain.ScheduleConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule
}

// Override returns a copy of the override bookkeeping.
func (s *Store) Override() domain.OverrideState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o := s.override
	if o.LastManualToggle != nil {
		t := *o.LastManualToggle
		o.LastManualToggle = &t
	}
	return o
}

// SetScheduleEnabled turns automatic scheduling on or off.
func (s *Store) SetScheduleEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(map[string]json.RawMessage{
		KeyScheduleEnabled: encode(enabled),
	}); err != nil {
		return err
	}
	s.schedule.Enabled = enabled
	return nil
}

// SetLightModeStart stores a normalized window start.
func (s *Store) SetLightModeStart(hour, minute int) error {
	start := domain.NewTimeOfDay(hour, minute)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(map[string]json.RawMessage{
		KeyLightModeStartHour:   encode(start.Hour()),
		KeyLightModeStartMinute: encode(start.Minute()),
	}); err != nil {
		return err
	}
	s.schedule.LightStart = start
	return nil
}

// SetLightModeEnd stores a normalized window end.
func (s *Store) SetLightModeEnd(hour, minute int) error {
	end := domain.NewTimeOfDay(hour, minute)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(map[string]json.RawMessage{
		KeyLightModeEndHour:   encode(end.Hour()),
		KeyLightModeEndMinute: encode(end.Minute()),
	}); err != nil {
		return err
	}
	s.schedule.LightEnd = end
	return nil
}

// SaveSchedule replaces the whole schedule configuration in one write.
func (s *Store) SaveSchedule(cfg domain.ScheduleConfig) error {
	start := domain.NewTimeOfDay(cfg.LightStart.Hour(), cfg.LightStart.Minute())
	end := domain.NewTimeOfDay(cfg.LightEnd.Hour(), cfg.LightEnd.Minute())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(map[string]json.RawMessage{
		KeyScheduleEnabled:      encode(cfg.Enabled),
		KeyLightModeStartHour:   encode(start.Hour()),
		KeyLightModeStartMinute: encode(start.Minute()),
		KeyLightModeEndHour:     encode(end.Hour()),
		KeyLightModeEndMinute:   encode(end.Minute()),
	}); err != nil {
		return err
	}
	s.schedule = domain.ScheduleConfig{Enabled: cfg.Enabled, LightStart: start, LightEnd: end}
	return nil
}

// RecordManualOverride stores the toggle instant and arms the one-shot skip.
func (s *Store) RecordManualOverride(at time.Time) error {
	// Millisecond precision matches what is persisted.
	utc := time.UnixMilli(at.UnixMilli()).UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(map[string]json.RawMessage{
		KeyLastManualToggleTime: encode(utc.UnixMilli()),
		KeySkipNextTransition:   encode(true),
	}); err != nil {
		return err
	}
	s.override.LastManualToggle = &utc
	s.override.SkipNextTransition = true
	return nil
}

// ClearSkipNextTransition disarms the one-shot skip. The in-memory flag is
// cleared even when the write fails, so a crossing is never swallowed twice.
func (s *Store) ClearSkipNextTransition() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override.SkipNextTransition = false
	return s.write(map[string]json.RawMessage{
		KeySkipNextTransition: encode(false),
	})
}

func (s *Store) write(values map[string]json.RawMessage) error {
	if err := s.repo.Save(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func sameOverride(a, b domain.OverrideState) bool {
	if a.SkipNextTransition != b.SkipNextTransition {
		return false
	}
	if a.LastManualToggle == nil || b.LastManualToggle == nil {
		return a.LastManualToggle == nil && b.LastManualToggle == nil
	}
	return a.LastManualToggle.Equal(*b.LastManualToggle)
}
