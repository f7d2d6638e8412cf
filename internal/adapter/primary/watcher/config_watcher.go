package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"darkmode-scheduler/internal/logging"
)

// Reloader re-reads persisted settings and reports whether they changed.
type Reloader interface {
	Reload() bool
}

// Refresher forces a scheduler re-evaluation.
type Refresher interface {
	Refresh()
}

// ConfigWatcher monitors the settings file and refreshes the scheduler when
// another process edits it.
type ConfigWatcher struct {
	path      string
	reloader  Reloader
	refresher Refresher
	watcher   *fsnotify.Watcher
	debounce  time.Duration

	mu       sync.Mutex
	stopOnce sync.Once
	stopCh   chan struct{}
	reloadCh chan struct{}
	done     sync.WaitGroup
}

// DefaultDebounce collapses bursts of writes (tmp file + rename) into one reload.
const DefaultDebounce = 500 * time.Millisecond

// NewConfigWatcher creates a watcher for path.
func NewConfigWatcher(path string, reloader Reloader, refresher Refresher, debounce time.Duration) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &ConfigWatcher{
		path:      absPath,
		reloader:  reloader,
		refresher: refresher,
		watcher:   w,
		debounce:  debounce,
		stopCh:    make(chan struct{}),
		reloadCh:  make(chan struct{}, 1),
	}, nil
}

// Start watches the directory containing the settings file; watching the
// file itself would lose track of it after an atomic rename.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	dir := filepath.Dir(cw.path)
	if err := cw.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch config directory %s: %w", dir, err)
	}
	logging.Infof("watching settings file %s", cw.path)

	cw.done.Add(2)
	go cw.watchLoop(ctx)
	go cw.reloadLoop(ctx)
	return nil
}

// Stop ends both loops and closes the underlying watcher.
func (cw *ConfigWatcher) Stop() error {
	var err error
	cw.stopOnce.Do(func() {
		close(cw.stopCh)
		err = cw.watcher.Close()
		cw.done.Wait()
	})
	return err
}

func (cw *ConfigWatcher) watchLoop(ctx context.Context) {
	defer cw.done.Done()
	name := filepath.Base(cw.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopCh:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logging.Debugf("settings file event: %s", event)
				cw.trigger()
			} else if event.Has(fsnotify.Remove) {
				logging.Warnf("settings file removed: %s", event.Name)
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			logging.Errorf("settings watcher: %v", err)
		}
	}
}

func (cw *ConfigWatcher) reloadLoop(ctx context.Context) {
	defer cw.done.Done()
	var pending *time.Timer
	stop := func() {
		if pending != nil {
			pending.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return
		case <-cw.stopCh:
			stop()
			return
		case <-cw.reloadCh:
			stop()
			pending = time.AfterFunc(cw.debounce, cw.reload)
		}
	}
}

func (cw *ConfigWatcher) trigger() {
	select {
	case cw.reloadCh <- struct{}{}:
	default:
	}
}

func (cw *ConfigWatcher) reload() {
	if !cw.reloader.Reload() {
		logging.Debugf("settings unchanged after file event")
		return
	}
	logging.Infof("settings changed on disk; refreshing schedule")
	cw.refresher.Refresh()
}
