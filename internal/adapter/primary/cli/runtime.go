package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"darkmode-scheduler/internal/adapter/primary/portal"
	"darkmode-scheduler/internal/adapter/primary/watcher"
	"darkmode-scheduler/internal/adapter/primary/web"
	"darkmode-scheduler/internal/adapter/secondary/repository"
	"darkmode-scheduler/internal/adapter/secondary/theme"
	"darkmode-scheduler/internal/adapter/secondary/timer"
	"darkmode-scheduler/internal/config"
	"darkmode-scheduler/internal/domain"
	"darkmode-scheduler/internal/logging"
	"darkmode-scheduler/internal/metrics"
	"darkmode-scheduler/internal/usecase"
)

const (
	backendAuto   = "auto"
	backendJSON   = "json"
	backendSQLite = "sqlite"
)

var errServerClosed = http.ErrServerClosed

// openStore builds the config store for --config/--backend. The returned
// func releases the backing repository.
func openStore() (*config.Store, func(), error) {
	repo, closeRepo, err := openRepository(cfgPath, backend)
	if err != nil {
		return nil, nil, err
	}
	store, err := config.NewStore(repo)
	if err != nil {
		closeRepo()
		return nil, nil, err
	}
	return store, closeRepo, nil
}

// resolveBackend maps "auto" to a concrete backend by file extension.
func resolveBackend(path, kind string) string {
	kind = strings.ToLower(kind)
	if kind == "" || kind == backendAuto {
		if config.IsSQLitePath(path) {
			return backendSQLite
		}
		return backendJSON
	}
	return kind
}

func openRepository(path, kind string) (domain.SettingsRepository, func(), error) {
	switch resolveBackend(path, kind) {
	case backendJSON:
		repo, err := repository.NewFileRepository(path)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	case backendSQLite:
		repo, err := repository.NewSQLiteRepository(path)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				logging.Warnf("close settings database: %v", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want auto, json or sqlite)", kind)
	}
}

type runtimeOptions struct {
	watchPortal bool
	withMetrics bool
}

// runtime holds a running scheduler and the adapters feeding it.
type runtime struct {
	store      *config.Store
	closeStore func()
	sink       *theme.Tracked
	uc         usecase.SchedulerUseCase
	registry   *prometheus.Registry
	cfgWatcher *watcher.ConfigWatcher
	portal     *portal.Watcher
}

func startRuntime(ctx context.Context, opts runtimeOptions) (*runtime, error) {
	store, closeStore, err := openStore()
	if err != nil {
		return nil, err
	}
	rt := &runtime{store: store, closeStore: closeStore}

	inner, err := theme.New(sinkName)
	if err != nil {
		closeStore()
		return nil, err
	}
	rt.sink = theme.NewTracked(inner)

	tm, err := timer.NewGocronTimer(clockwork.NewRealClock())
	if err != nil {
		closeStore()
		return nil, err
	}

	var ucOpts []usecase.Option
	if opts.withMetrics {
		rt.registry = prometheus.NewRegistry()
		ucOpts = append(ucOpts, usecase.WithRecorder(metrics.NewPrometheusRecorder(rt.registry)))
	}

	rt.uc, err = usecase.NewSchedulerUseCase(store, rt.sink, clockwork.NewRealClock(), tm, ucOpts...)
	if err != nil {
		_ = tm.Stop()
		closeStore()
		return nil, err
	}

	// Only the JSON backend is rewritten atomically by other processes.
	if resolveBackend(cfgPath, backend) == backendJSON {
		cw, err := watcher.NewConfigWatcher(cfgPath, store, rt.uc, watcher.DefaultDebounce)
		if err != nil {
			logging.Warnf("config watcher disabled: %v", err)
		} else if err := cw.Start(ctx); err != nil {
			_ = cw.Stop()
			logging.Warnf("config watcher disabled: %v", err)
		} else {
			rt.cfgWatcher = cw
		}
	}

	if opts.watchPortal {
		pw, err := portal.NewWatcher(rt.uc, rt.sink)
		if err != nil {
			logging.Debugf("portal watcher unavailable: %v", err)
		} else {
			pw.Start(ctx)
			rt.portal = pw
		}
	}

	return rt, nil
}

func (rt *runtime) newServer(addr string) *web.Server {
	var gatherer prometheus.Gatherer
	if rt.registry != nil {
		gatherer = rt.registry
	}
	return web.NewServer(rt.uc, addr, gatherer)
}

// Close stops every adapter, then the scheduler, then releases the store.
func (rt *runtime) Close() {
	if rt.portal != nil {
		if err := rt.portal.Stop(); err != nil {
			logging.Warnf("stop portal watcher: %v", err)
		}
	}
	if rt.cfgWatcher != nil {
		if err := rt.cfgWatcher.Stop(); err != nil {
			logging.Warnf("stop config watcher: %v", err)
		}
	}
	if err := rt.uc.Dispose(); err != nil {
		logging.Warnf("stop scheduler: %v", err)
	}
	rt.closeStore()
}

// manualSession applies a one-off theme change outside the daemon and
// records it as a manual override so a running daemon skips the next
// transition.
type manualSession struct {
	store *config.Store
	sink  domain.ThemeSink
	clock domain.Clock
}

func (m *manualSession) set(isLight bool) error {
	if err := m.sink.SetTheme(isLight); err != nil {
		return err
	}
	return m.store.RecordManualOverride(m.clock.Now().UTC())
}

func (m *manualSession) toggle() (bool, error) {
	reader, ok := m.sink.(domain.ThemeReader)
	if !ok {
		return false, domain.ErrThemeUnreadable
	}
	current, err := reader.IsLight()
	if err != nil {
		return false, fmt.Errorf("read current theme: %w", err)
	}
	return !current, m.set(!current)
}

func runManual(cmd *cobra.Command, fn func(*manualSession) (bool, error)) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	sink, err := theme.New(sinkName)
	if err != nil {
		return err
	}
	isLight, err := fn(&manualSession{store: store, sink: sink, clock: clockwork.NewRealClock()})
	if err != nil {
		if errors.Is(err, domain.ErrThemeUnreadable) {
			return fmt.Errorf("sink %q cannot read the current theme; use apply --light or --dark", sinkName)
		}
		return err
	}
	name := "dark"
	if isLight {
		name = "light"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %s theme; next scheduled change will be skipped\n", name)
	return nil
}
