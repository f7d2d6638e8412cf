package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReloader struct {
	reloads atomic.Int32
	changed atomic.Bool
}

func (c *countingReloader) Reload() bool {
	c.reloads.Add(1)
	return c.changed.Load()
}

type countingRefresher struct {
	refreshes atomic.Int32
}

func (c *countingRefresher) Refresh() { c.refreshes.Add(1) }

func startWatcher(t *testing.T, reloader *countingReloader, refresher *countingRefresher) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	cw, err := NewConfigWatcher(path, reloader, refresher, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, cw.Start(context.Background()))
	t.Cleanup(func() { _ = cw.Stop() })
	return path
}

func TestConfigWatcherRefreshesOnChange(t *testing.T) {
	reloader := &countingReloader{}
	reloader.changed.Store(true)
	refresher := &countingRefresher{}
	path := startWatcher(t, reloader, refresher)

	require.NoError(t, os.WriteFile(path, []byte(`{"ScheduleEnabled": true}`), 0o644))

	require.Eventually(t, func() bool {
		return refresher.refreshes.Load() >= 1
	}, 3*time.Second, 10*time.Millisecond)
}

func TestConfigWatcherSkipsUnchanged(t *testing.T) {
	reloader := &countingReloader{}
	refresher := &countingRefresher{}
	path := startWatcher(t, reloader, refresher)

	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	require.Eventually(t, func() bool {
		return reloader.reloads.Load() >= 1
	}, 3*time.Second, 10*time.Millisecond)
	assert.Zero(t, refresher.refreshes.Load())
}

func TestConfigWatcherIgnoresOtherFiles(t *testing.T) {
	reloader := &countingReloader{}
	refresher := &countingRefresher{}
	path := startWatcher(t, reloader, refresher)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.json"), []byte(`{}`), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, reloader.reloads.Load())
}

func TestConfigWatcherStopIsIdempotent(t *testing.T) {
	cw, err := NewConfigWatcher(filepath.Join(t.TempDir(), "s.json"), &countingReloader{}, &countingRefresher{}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, cw.debounce)
	require.NoError(t, cw.Start(context.Background()))
	require.NoError(t, cw.Stop())
	assert.NoError(t, cw.Stop())
}
