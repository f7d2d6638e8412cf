package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func dayWindow() ScheduleConfig {
	return ScheduleConfig{Enabled: true, LightStart: NewTimeOfDay(9, 0), LightEnd: NewTimeOfDay(17, 0)}
}

func clockAt(h, m int) time.Time {
	return time.Date(2024, 6, 1, h, m, 0, 0, time.UTC)
}

func TestEvaluateDisabledResetsBaseline(t *testing.T) {
	svc := NewSchedulerService()
	cfg := dayWindow()
	cfg.Enabled = false

	state, dec := svc.Evaluate(EvaluationState{HasBaseline: true, LastShouldBeLight: true}, cfg, OverrideState{}, clockAt(10, 0), true)
	assert.Equal(t, EvaluationState{}, state)
	assert.Equal(t, OutcomeDisabled, dec.Outcome)
	assert.False(t, dec.Apply)
	assert.False(t, dec.ConsumeSkip)
}

func TestEvaluateBaseline(t *testing.T) {
	svc := NewSchedulerService()

	state, dec := svc.Evaluate(EvaluationState{}, dayWindow(), OverrideState{}, clockAt(10, 0), false)
	assert.Equal(t, EvaluationState{HasBaseline: true, LastShouldBeLight: true}, state)
	assert.Equal(t, Decision{Outcome: OutcomeBaseline, ShouldBeLight: true, Apply: true}, dec)
}

func TestEvaluateBaselineSuppressedKeepsSkip(t *testing.T) {
	svc := NewSchedulerService()

	state, dec := svc.Evaluate(EvaluationState{}, dayWindow(), OverrideState{SkipNextTransition: true}, clockAt(18, 0), true)
	assert.Equal(t, EvaluationState{HasBaseline: true, LastShouldBeLight: false}, state)
	assert.Equal(t, OutcomeBaselineSuppressed, dec.Outcome)
	assert.False(t, dec.Apply)
	assert.False(t, dec.ConsumeSkip)
}

func TestEvaluateForcedReappliesUnchangedTarget(t *testing.T) {
	svc := NewSchedulerService()
	prev := EvaluationState{HasBaseline: true, LastShouldBeLight: true}

	state, dec := svc.Evaluate(prev, dayWindow(), OverrideState{}, clockAt(11, 0), true)
	assert.Equal(t, prev, state)
	assert.True(t, dec.Apply)
	assert.True(t, dec.ShouldBeLight)
}

func TestEvaluateTick(t *testing.T) {
	svc := NewSchedulerService()
	tracking := EvaluationState{HasBaseline: true, LastShouldBeLight: true}

	tests := []struct {
		name      string
		now       time.Time
		override  OverrideState
		wantState EvaluationState
		wantDec   Decision
	}{
		{
			name:      "unchanged",
			now:       clockAt(16, 59),
			wantState: tracking,
			wantDec:   Decision{Outcome: OutcomeUnchanged, ShouldBeLight: true},
		},
		{
			name:      "unchanged with pending skip",
			now:       clockAt(12, 0),
			override:  OverrideState{SkipNextTransition: true},
			wantState: tracking,
			wantDec:   Decision{Outcome: OutcomeUnchanged, ShouldBeLight: true},
		},
		{
			name:      "transition",
			now:       clockAt(17, 0),
			wantState: EvaluationState{HasBaseline: true},
			wantDec:   Decision{Outcome: OutcomeTransition, Apply: true},
		},
		{
			name:      "suppressed transition",
			now:       clockAt(17, 0),
			override:  OverrideState{SkipNextTransition: true},
			wantState: EvaluationState{HasBaseline: true},
			wantDec:   Decision{Outcome: OutcomeSuppressed, ConsumeSkip: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, dec := svc.Evaluate(tracking, dayWindow(), tt.override, tt.now, false)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantDec, dec)
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "suppressed", OutcomeSuppressed.String())
	assert.Equal(t, "baseline_suppressed", OutcomeBaselineSuppressed.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
