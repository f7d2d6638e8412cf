//go:build windows

package theme

import (
	"fmt"

	"golang.org/x/sys/windows/registry"

	"darkmode-scheduler/internal/domain"
)

const (
	personalizeKey       = `Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`
	appsUseLightTheme    = "AppsUseLightTheme"
	systemUsesLightTheme = "SystemUsesLightTheme"
)

// RegistrySink implements domain.ThemeSink by writing the per-user
// Personalize values. Explorer picks the change up on its own schedule.
type RegistrySink struct{}

// NewRegistrySink creates a new registry theme sink.
func NewRegistrySink() (domain.ThemeSink, error) {
	return &RegistrySink{}, nil
}

func (r *RegistrySink) SetTheme(isLight bool) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, personalizeKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open personalize key: %w", err)
	}
	defer k.Close()

	var value uint32
	if isLight {
		value = 1
	}
	for _, name := range []string{appsUseLightTheme, systemUsesLightTheme} {
		if err := k.SetDWordValue(name, value); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}

// IsLight reports light when the value is missing, as older Windows versions do.
func (r *RegistrySink) IsLight() (bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, personalizeKey, registry.QUERY_VALUE)
	if err != nil {
		return true, nil
	}
	defer k.Close()

	useLight, _, err := k.GetIntegerValue(appsUseLightTheme)
	if err != nil {
		return true, nil
	}
	return useLight != 0, nil
}
