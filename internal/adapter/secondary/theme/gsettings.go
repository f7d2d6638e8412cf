package theme

import (
	"fmt"
	"strings"

	"darkmode-scheduler/internal/domain"
)

const (
	gnomeInterfaceSchema = "org.gnome.desktop.interface"
	gnomeColorSchemeKey  = "color-scheme"
)

// GSettingsSink implements domain.ThemeSink for GNOME-based desktops by
// writing the color-scheme preference with gsettings.
type GSettingsSink struct {
	run runner
}

// NewGSettingsSink creates a new gsettings theme sink.
func NewGSettingsSink() *GSettingsSink {
	return &GSettingsSink{run: execRunner}
}

func (g *GSettingsSink) SetTheme(isLight bool) error {
	value := "prefer-dark"
	if isLight {
		value = "prefer-light"
	}
	if _, err := g.run("gsettings", "set", gnomeInterfaceSchema, gnomeColorSchemeKey, value); err != nil {
		return err
	}
	return nil
}

// IsLight treats anything but prefer-dark ("default", "prefer-light") as light.
func (g *GSettingsSink) IsLight() (bool, error) {
	out, err := g.run("gsettings", "get", gnomeInterfaceSchema, gnomeColorSchemeKey)
	if err != nil {
		return false, err
	}
	value := strings.Trim(strings.TrimSpace(string(out)), "'")
	if value == "" {
		return false, fmt.Errorf("empty %s value", gnomeColorSchemeKey)
	}
	return value != "prefer-dark", nil
}

var (
	_ domain.ThemeSink   = (*GSettingsSink)(nil)
	_ domain.ThemeReader = (*GSettingsSink)(nil)
)
