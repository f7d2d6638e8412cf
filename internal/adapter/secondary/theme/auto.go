package theme

import (
	"fmt"
	"runtime"

	"darkmode-scheduler/internal/domain"
)

// Sink names accepted by New.
const (
	SinkAuto        = "auto"
	SinkGSettings   = "gsettings"
	SinkAppleScript = "applescript"
	SinkRegistry    = "registry"
	SinkNoop        = "noop"
)

// New returns the sink registered under name. "auto" picks one by GOOS.
func New(name string) (domain.ThemeSink, error) {
	if name == "" || name == SinkAuto {
		name = defaultSinkFor(runtime.GOOS)
	}
	switch name {
	case SinkGSettings:
		return NewGSettingsSink(), nil
	case SinkAppleScript:
		return NewAppleScriptSink(), nil
	case SinkRegistry:
		return NewRegistrySink()
	case SinkNoop:
		return NewNoopSink(), nil
	default:
		return nil, fmt.Errorf("unknown theme sink %q", name)
	}
}

func defaultSinkFor(goos string) string {
	switch goos {
	case "windows":
		return SinkRegistry
	case "darwin":
		return SinkAppleScript
	case "linux", "freebsd", "openbsd", "netbsd":
		return SinkGSettings
	default:
		return SinkNoop
	}
}
