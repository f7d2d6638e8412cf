package theme

import (
	"sync"

	"darkmode-scheduler/internal/domain"
	"darkmode-scheduler/internal/logging"
)

// NoopSink implements domain.ThemeSink without touching the OS.
// Useful for testing or unsupported environments.
type NoopSink struct {
	mu      sync.Mutex
	isLight bool
}

// NewNoopSink creates a new no-op theme sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{isLight: true}
}

// SetTheme only logs the requested theme.
func (n *NoopSink) SetTheme(isLight bool) error {
	n.mu.Lock()
	n.isLight = isLight
	n.mu.Unlock()
	logging.Infof("noop sink: light=%t", isLight)
	return nil
}

// IsLight returns the last value passed to SetTheme.
func (n *NoopSink) IsLight() (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.isLight, nil
}

var (
	_ domain.ThemeSink   = (*NoopSink)(nil)
	_ domain.ThemeReader = (*NoopSink)(nil)
)
