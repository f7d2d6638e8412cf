package theme

import (
	"fmt"
	"os/exec"
	"strings"
)

// runner executes an external command and returns its combined output.
type runner func(name string, args ...string) ([]byte, error)

func execRunner(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s failed: %w, output: %s", name, err, strings.TrimSpace(string(output)))
	}
	return output, nil
}
