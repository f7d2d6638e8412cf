package domain

import "time"

// Outcome describes what an evaluation decided.
type Outcome int

const (
	OutcomeDisabled Outcome = iota
	OutcomeBaseline
	OutcomeBaselineSuppressed
	OutcomeTransition
	OutcomeSuppressed
	OutcomeUnchanged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDisabled:
		return "disabled"
	case OutcomeBaseline:
		return "baseline"
	case OutcomeBaselineSuppressed:
		return "baseline_suppressed"
	case OutcomeTransition:
		return "transition"
	case OutcomeSuppressed:
		return "suppressed"
	case OutcomeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Decision is the side effect an evaluation asks the caller to perform.
type Decision struct {
	Outcome       Outcome
	ShouldBeLight bool
	// Apply means ThemeSink.SetTheme(ShouldBeLight) must be called.
	Apply bool
	// ConsumeSkip means OverrideState.SkipNextTransition must be cleared.
	ConsumeSkip bool
}

// SchedulerService provides pure domain logic for the scheduler.
// It has no side effects; callers execute the returned Decision.
type SchedulerService struct{}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService() *SchedulerService {
	return &SchedulerService{}
}

// ShouldBeLight evaluates the light window at now.
func (s *SchedulerService) ShouldBeLight(cfg ScheduleConfig, now time.Time) bool {
	return IsWithinLightWindow(TimeOfDayOf(now), cfg.LightStart, cfg.LightEnd)
}

// Evaluate advances the state machine. force is set for refreshes, which
// always re-establish the baseline and re-apply the target.
func (s *SchedulerService) Evaluate(state EvaluationState, cfg ScheduleConfig, override OverrideState, now time.Time, force bool) (EvaluationState, Decision) {
	if !cfg.Enabled {
		return EvaluationState{}, Decision{Outcome: OutcomeDisabled}
	}

	shouldBeLight := s.ShouldBeLight(cfg, now)

	if force || !state.HasBaseline {
		next := EvaluationState{HasBaseline: true, LastShouldBeLight: shouldBeLight}
		if override.SkipNextTransition {
			return next, Decision{Outcome: OutcomeBaselineSuppressed, ShouldBeLight: shouldBeLight}
		}
		return next, Decision{Outcome: OutcomeBaseline, ShouldBeLight: shouldBeLight, Apply: true}
	}

	if shouldBeLight == state.LastShouldBeLight {
		return state, Decision{Outcome: OutcomeUnchanged, ShouldBeLight: shouldBeLight}
	}

	next := EvaluationState{HasBaseline: true, LastShouldBeLight: shouldBeLight}
	if override.SkipNextTransition {
		return next, Decision{Outcome: OutcomeSuppressed, ShouldBeLight: shouldBeLight, ConsumeSkip: true}
	}
	return next, Decision{Outcome: OutcomeTransition, ShouldBeLight: shouldBeLight, Apply: true}
}
