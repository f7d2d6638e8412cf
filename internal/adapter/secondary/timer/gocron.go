package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"darkmode-scheduler/internal/domain"
)

// GocronTimer implements domain.PeriodicTimer on a gocron scheduler.
// This is a secondary adapter.
type GocronTimer struct {
	scheduler gocron.Scheduler

	mu      sync.Mutex
	started bool
	stopped bool
}

var _ domain.PeriodicTimer = (*GocronTimer)(nil)

// NewGocronTimer creates a timer driven by clock.
func NewGocronTimer(clock clockwork.Clock) (*GocronTimer, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		return nil, fmt.Errorf("%w: create gocron scheduler: %w", domain.ErrTimerUnavailable, err)
	}
	return &GocronTimer{scheduler: s}, nil
}

// Start registers fn as a singleton job every interval and starts the scheduler.
func (t *GocronTimer) Start(interval time.Duration, fn func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return errors.New("timer already stopped")
	}
	if t.started {
		return errors.New("timer already started")
	}

	_, err := t.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName("evaluate-schedule"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create periodic job: %w", err)
	}

	t.scheduler.Start()
	t.started = true
	return nil
}

// Stop shuts the scheduler down. Subsequent calls are no-ops.
func (t *GocronTimer) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return nil
	}
	t.stopped = true
	if err := t.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return nil
}

// Jobs reports how many jobs are registered.
func (t *GocronTimer) Jobs() int {
	return len(t.scheduler.Jobs())
}
