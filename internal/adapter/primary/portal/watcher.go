package portal

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"darkmode-scheduler/internal/logging"
)

const (
	portalPath           = "/org/freedesktop/portal/desktop"
	settingsInterface    = "org.freedesktop.portal.Settings"
	settingChangedMember = "SettingChanged"
	appearanceNamespace  = "org.freedesktop.appearance"
	colorSchemeKey       = "color-scheme"
)

// Values of org.freedesktop.appearance color-scheme.
const (
	colorSchemeNoPreference uint32 = 0
	colorSchemePreferDark   uint32 = 1
	colorSchemePreferLight  uint32 = 2
)

// OverrideNotifier receives manual theme changes.
type OverrideNotifier interface {
	NotifyManualOverride() error
}

// AppliedTheme reports the last theme the scheduler applied itself.
type AppliedTheme interface {
	LastApplied() (isLight bool, ok bool)
}

// Watcher listens for desktop portal color-scheme changes and reports the
// ones the scheduler did not cause as manual overrides.
type Watcher struct {
	conn     *dbus.Conn
	notifier OverrideNotifier
	applied  AppliedTheme

	signals  chan *dbus.Signal
	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher subscribes to SettingChanged on the session bus.
func NewWatcher(notifier OverrideNotifier, applied AppliedTheme) (*Watcher, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(portalPath),
		dbus.WithMatchInterface(settingsInterface),
		dbus.WithMatchMember(settingChangedMember),
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", settingChangedMember, err)
	}
	return newWatcher(conn, notifier, applied), nil
}

func newWatcher(conn *dbus.Conn, notifier OverrideNotifier, applied AppliedTheme) *Watcher {
	return &Watcher{
		conn:     conn,
		notifier: notifier,
		applied:  applied,
		signals:  make(chan *dbus.Signal, 16),
		done:     make(chan struct{}),
	}
}

// Start processes signals until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	if w.conn != nil {
		w.conn.Signal(w.signals)
	}
	go w.loop(ctx)
}

// Stop closes the bus connection.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		if w.conn != nil {
			w.conn.RemoveSignal(w.signals)
			err = w.conn.Close()
		}
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case sig, ok := <-w.signals:
			if !ok {
				return
			}
			w.handle(sig)
		}
	}
}

func (w *Watcher) handle(sig *dbus.Signal) {
	isLight, ok := parseColorScheme(sig)
	if !ok {
		return
	}
	if last, applied := w.applied.LastApplied(); applied && last == isLight {
		logging.Tracef("portal color-scheme change matches scheduler output (light=%t)", isLight)
		return
	}
	logging.Infof("theme changed outside the scheduler (light=%t)", isLight)
	if err := w.notifier.NotifyManualOverride(); err != nil {
		logging.Warnf("record manual override: %v", err)
	}
}

// parseColorScheme extracts the light/dark preference from a SettingChanged
// signal. "No preference" counts as light.
func parseColorScheme(sig *dbus.Signal) (isLight bool, ok bool) {
	if sig == nil || sig.Name != settingsInterface+"."+settingChangedMember || len(sig.Body) != 3 {
		return false, false
	}
	namespace, _ := sig.Body[0].(string)
	key, _ := sig.Body[1].(string)
	if namespace != appearanceNamespace || key != colorSchemeKey {
		return false, false
	}

	var raw any = sig.Body[2]
	if v, isVariant := raw.(dbus.Variant); isVariant {
		raw = v.Value()
	}
	scheme, isUint := raw.(uint32)
	if !isUint {
		return false, false
	}
	switch scheme {
	case colorSchemePreferDark:
		return false, true
	case colorSchemePreferLight, colorSchemeNoPreference:
		return true, true
	default:
		return false, false
	}
}
