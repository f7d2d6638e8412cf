package theme

import (
	"sync"

	"darkmode-scheduler/internal/domain"
)

// Tracked wraps a sink and remembers the last theme successfully applied
// through it, so external watchers can tell our own writes from the user's.
type Tracked struct {
	inner domain.ThemeSink

	mu      sync.RWMutex
	last    bool
	hasLast bool
}

// NewTracked wraps inner.
func NewTracked(inner domain.ThemeSink) *Tracked {
	return &Tracked{inner: inner}
}

// SetTheme records isLight as the applied theme before calling the wrapped
// sink, since the desktop may report the change while the write is still in
// flight. A failed write restores the previous value.
func (t *Tracked) SetTheme(isLight bool) error {
	t.mu.Lock()
	prev, prevOK := t.last, t.hasLast
	t.last, t.hasLast = isLight, true
	t.mu.Unlock()

	if err := t.inner.SetTheme(isLight); err != nil {
		t.mu.Lock()
		t.last, t.hasLast = prev, prevOK
		t.mu.Unlock()
		return err
	}
	return nil
}

// IsLight delegates to the wrapped sink when it can read the theme.
func (t *Tracked) IsLight() (bool, error) {
	reader, ok := t.inner.(domain.ThemeReader)
	if !ok {
		return false, domain.ErrThemeUnreadable
	}
	return reader.IsLight()
}

// LastApplied returns the theme most recently written or being written, if any.
func (t *Tracked) LastApplied() (isLight bool, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last, t.hasLast
}

var (
	_ domain.ThemeSink   = (*Tracked)(nil)
	_ domain.ThemeReader = (*Tracked)(nil)
)
