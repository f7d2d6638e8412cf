package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darkmode-scheduler/internal/logging"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestConfigSetAndGet(t *testing.T) {
	for _, name := range []string{"settings.json", "settings.db"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			out, err := run(t, "--config", path, "config", "set", "--enabled", "true", "--start", "22:00", "--end", "06:30")
			require.NoError(t, err)
			assert.Contains(t, out, "enabled=true light=22:00-06:30")

			out, err = run(t, "--config", path, "config", "get")
			require.NoError(t, err)
			var got map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, true, got["enabled"])
			assert.Equal(t, "22:00", got["lightStart"])
			assert.Equal(t, "06:30", got["lightEnd"])
			assert.Equal(t, false, got["skipNextTransition"])
		})
	}
}

func TestConfigSetRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	_, err := run(t, "--config", path, "config", "set", "--start", "24:00")
	assert.Error(t, err)

	_, err = run(t, "--config", path, "config", "set", "--enabled", "yes")
	assert.Error(t, err)

	_, err = run(t, "--config", path, "--backend", "xml", "config", "get")
	assert.ErrorContains(t, err, "unknown backend")
}

func TestApplyRecordsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	out, err := run(t, "--config", path, "--sink", "noop", "apply", "--dark")
	require.NoError(t, err)
	assert.Contains(t, out, "applied dark theme")

	out, err = run(t, "--config", path, "config", "get")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["skipNextTransition"])
	assert.NotEmpty(t, got["lastManualToggle"])

	_, err = run(t, "--config", path, "--sink", "noop", "apply", "--dark", "--light")
	assert.Error(t, err)
}

func TestToggleWithNoopSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	out, err := run(t, "--config", path, "--sink", "noop", "toggle")
	require.NoError(t, err)
	assert.Contains(t, out, "applied dark theme")
}

func TestStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	out, err := run(t, "--config", path, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "schedule: disabled (light 09:00-17:00)")
}

func TestResolveBackend(t *testing.T) {
	assert.Equal(t, backendSQLite, resolveBackend("/x/settings.sqlite", "auto"))
	assert.Equal(t, backendJSON, resolveBackend("/x/settings.json", ""))
	assert.Equal(t, backendJSON, resolveBackend("/x/settings.db", "JSON"))
}

func TestHandleShellLog(t *testing.T) {
	prev := logging.Verbosity()
	t.Cleanup(func() {
		logging.SetVerbosity(prev)
		verbosity = prev
	})

	session := 0
	require.NoError(t, handleShellLog([]string{"--level", "debug"}, &session))
	assert.Equal(t, 2, session)
	assert.Equal(t, 2, logging.Verbosity())
	assert.Equal(t, 2, verbosity)

	require.NoError(t, handleShellLog([]string{"-vvv"}, &session))
	assert.Equal(t, 3, session)
	assert.Equal(t, 3, logging.Verbosity())

	require.NoError(t, handleShellLog([]string{"--show"}, &session))
	assert.Equal(t, 3, session, "--show leaves the level alone")

	require.NoError(t, handleShellLog([]string{"--level", "error"}, &session))
	assert.Equal(t, 0, session)
	assert.Equal(t, 0, logging.Verbosity())

	assert.Error(t, handleShellLog([]string{"--level", "loud"}, &session))
	assert.Equal(t, 0, session)
	assert.Error(t, handleShellLog([]string{"--bogus"}, &session))
}

func TestExecuteArgsRunsSubcommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, executeArgs([]string{"--config", path, "config", "set", "--start", "07:15"}))

	out, err := run(t, "--config", path, "config", "get")
	require.NoError(t, err)
	assert.Contains(t, out, `"lightStart": "07:15"`)

	assert.NoError(t, executeArgs(nil))
	assert.Error(t, executeArgs([]string{"no-such-command"}))
}
