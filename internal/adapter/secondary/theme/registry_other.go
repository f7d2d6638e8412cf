//go:build !windows

package theme

import (
	"errors"

	"darkmode-scheduler/internal/domain"
)

// NewRegistrySink is only available on Windows.
func NewRegistrySink() (domain.ThemeSink, error) {
	return nil, errors.New("registry sink is only supported on windows")
}
