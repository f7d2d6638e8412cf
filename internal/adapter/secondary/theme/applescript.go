package theme

import (
	"fmt"
	"strings"

	"darkmode-scheduler/internal/domain"
)

// AppleScriptSink implements domain.ThemeSink using macOS osascript.
// This is a secondary adapter.
type AppleScriptSink struct {
	run runner
}

// NewAppleScriptSink creates a new AppleScript theme sink.
func NewAppleScriptSink() *AppleScriptSink {
	return &AppleScriptSink{run: execRunner}
}

// SetTheme toggles the system-wide dark mode through System Events.
func (a *AppleScriptSink) SetTheme(isLight bool) error {
	script := fmt.Sprintf(`tell application "System Events" to tell appearance preferences to set dark mode to %t`, !isLight)
	if _, err := a.run("osascript", "-e", script); err != nil {
		return err
	}
	return nil
}

// IsLight reads the current dark mode flag.
func (a *AppleScriptSink) IsLight() (bool, error) {
	out, err := a.run("osascript", "-e", `tell application "System Events" to tell appearance preferences to get dark mode`)
	if err != nil {
		return false, err
	}
	switch strings.TrimSpace(string(out)) {
	case "true":
		return false, nil
	case "false":
		return true, nil
	default:
		return false, fmt.Errorf("unexpected osascript output %q", strings.TrimSpace(string(out)))
	}
}

var (
	_ domain.ThemeSink   = (*AppleScriptSink)(nil)
	_ domain.ThemeReader = (*AppleScriptSink)(nil)
)
