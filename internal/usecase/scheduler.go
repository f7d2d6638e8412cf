package usecase

import (
	"fmt"
	"sync"

	"darkmode-scheduler/internal/domain"
	"darkmode-scheduler/internal/logging"
	"darkmode-scheduler/internal/metrics"
)

// SchedulerUseCase is the primary port for scheduler operations.
// Every method may be called from any goroutine; calls are serialized.
type SchedulerUseCase interface {
	// Refresh forces an immediate re-evaluation and re-applies the target.
	Refresh()
	// OnTick runs one periodic evaluation.
	OnTick()
	// NotifyManualOverride records that the user changed the theme by hand.
	NotifyManualOverride() error
	// UpdateConfig persists cfg and refreshes.
	UpdateConfig(cfg domain.ScheduleConfig) error
	// SetTheme applies a theme chosen by the user and records the override.
	SetTheme(isLight bool) error
	// ToggleTheme flips the current theme and records the override.
	ToggleTheme() (bool, error)
	Snapshot() domain.Snapshot
	// Dispose stops the periodic timer. Safe to call more than once.
	Dispose() error
}

// Option customizes the scheduler.
type Option func(*schedulerInteractor)

// WithRecorder reports evaluations and sink calls to rec.
func WithRecorder(rec metrics.Recorder) Option {
	return func(s *schedulerInteractor) {
		if rec != nil {
			s.recorder = rec
		}
	}
}

// schedulerInteractor implements SchedulerUseCase.
// It depends only on domain layer and secondary ports.
type schedulerInteractor struct {
	store    domain.ConfigStore
	sink     domain.ThemeSink
	clock    domain.Clock
	timer    domain.PeriodicTimer
	service  *domain.SchedulerService
	recorder metrics.Recorder

	mu       sync.Mutex
	eval     domain.EvaluationState
	disposed bool
}

// NewSchedulerUseCase starts the periodic timer and runs the initial forced
// evaluation. A missing or failing timer is returned as an error.
func NewSchedulerUseCase(
	store domain.ConfigStore,
	sink domain.ThemeSink,
	clock domain.Clock,
	timer domain.PeriodicTimer,
	opts ...Option,
) (SchedulerUseCase, error) {
	if store == nil || sink == nil || clock == nil {
		return nil, fmt.Errorf("store, sink and clock are required")
	}
	if timer == nil {
		return nil, domain.ErrTimerUnavailable
	}

	s := &schedulerInteractor{
		store:    store,
		sink:     sink,
		clock:    clock,
		timer:    timer,
		service:  domain.NewSchedulerService(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := timer.Start(domain.TickInterval, s.OnTick); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTimerUnavailable, err)
	}
	logging.Infof("scheduler started (interval %s)", domain.TickInterval)

	s.Refresh()
	return s, nil
}

func (s *schedulerInteractor) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evaluate("refresh", true)
}

func (s *schedulerInteractor) OnTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evaluate("tick", false)
}

// evaluate must be called with s.mu held.
func (s *schedulerInteractor) evaluate(trigger string, force bool) {
	if s.disposed {
		return
	}

	cfg := s.store.Schedule()
	override := s.store.Override()
	now := s.clock.Now()

	next, decision := s.service.Evaluate(s.eval, cfg, override, now, force)
	s.eval = next
	s.recorder.ObserveEvaluation(trigger, decision.Outcome.String())
	if decision.Outcome != domain.OutcomeDisabled {
		s.recorder.SetShouldBeLight(decision.ShouldBeLight)
	}
	logging.Tracef("%s at %s: window %s-%s -> %s (light=%t)",
		trigger, domain.TimeOfDayOf(now), cfg.LightStart, cfg.LightEnd, decision.Outcome, decision.ShouldBeLight)

	if decision.ConsumeSkip {
		logging.Infof("manual override kept through boundary crossing; scheduling resumes")
		if err := s.store.ClearSkipNextTransition(); err != nil {
			logging.Warnf("clear skip flag: %v", err)
		}
	}
	if decision.Apply {
		s.apply(decision.ShouldBeLight)
	}
}

// apply calls the sink without inspecting the outcome beyond logging;
// the evaluation state tracks intent, not confirmed effect.
func (s *schedulerInteractor) apply(isLight bool) {
	err := s.sink.SetTheme(isLight)
	s.recorder.ObserveSinkCall(isLight, err)
	if err != nil {
		logging.Warnf("apply %s theme: %v", themeName(isLight), err)
		return
	}
	logging.Infof("applied %s theme", themeName(isLight))
}

func (s *schedulerInteractor) NotifyManualOverride() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordOverride()
}

// recordOverride must be called with s.mu held.
func (s *schedulerInteractor) recordOverride() error {
	s.recorder.ObserveOverride()
	if err := s.store.RecordManualOverride(s.clock.Now().UTC()); err != nil {
		return fmt.Errorf("record manual override: %w", err)
	}
	logging.Infof("manual override recorded; next transition will be skipped")
	return nil
}

func (s *schedulerInteractor) UpdateConfig(cfg domain.ScheduleConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SaveSchedule(cfg); err != nil {
		return err
	}
	s.evaluate("refresh", true)
	return nil
}

func (s *schedulerInteractor) SetTheme(isLight bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setManually(isLight)
}

func (s *schedulerInteractor) ToggleTheme() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reader, ok := s.sink.(domain.ThemeReader)
	if !ok {
		return false, domain.ErrThemeUnreadable
	}
	current, err := reader.IsLight()
	if err != nil {
		return false, fmt.Errorf("read current theme: %w", err)
	}
	target := !current
	return target, s.setManually(target)
}

// setManually must be called with s.mu held.
func (s *schedulerInteractor) setManually(isLight bool) error {
	if s.disposed {
		return domain.ErrDisposed
	}
	err := s.sink.SetTheme(isLight)
	s.recorder.ObserveSinkCall(isLight, err)
	if err != nil {
		return fmt.Errorf("apply %s theme: %w", themeName(isLight), err)
	}
	return s.recordOverride()
}

func (s *schedulerInteractor) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.store.Schedule()
	return domain.Snapshot{
		Config:        cfg,
		Override:      s.store.Override(),
		ShouldBeLight: s.service.ShouldBeLight(cfg, s.clock.Now()),
		Disposed:      s.disposed,
	}
}

func (s *schedulerInteractor) Dispose() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	s.mu.Unlock()

	// Stop outside the lock: the timer may wait for an in-flight OnTick.
	logging.Infof("scheduler stopped")
	return s.timer.Stop()
}

func themeName(isLight bool) string {
	if isLight {
		return "light"
	}
	return "dark"
}
