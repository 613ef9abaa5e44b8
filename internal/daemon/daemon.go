// Package daemon assembles the indicator: configuration store, provider
// loader, update cycle, scheduler and file watcher.
package daemon

import (
	"context"
	"fmt"
	"os"
	"sync"
	"syscall"

	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/indicator-tide/indicator-tide/internal/clock"
	"github.com/indicator-tide/indicator-tide/internal/config"
	"github.com/indicator-tide/indicator-tide/internal/cycle"
	"github.com/indicator-tide/indicator-tide/internal/daemon/scheduler"
	"github.com/indicator-tide/indicator-tide/internal/daemon/watcher"
	"github.com/indicator-tide/indicator-tide/internal/fetch"
	"github.com/indicator-tide/indicator-tide/internal/menu"
	"github.com/indicator-tide/indicator-tide/internal/plugin"
)

// Options configures a Daemon. Renderer and Notifier are required.
type Options struct {
	Renderer cycle.Renderer
	Notifier cycle.Notifier
	Logger   *zap.Logger
	Clock    clock.Clock
	// Store defaults to ~/.tide/tide.json.
	Store *config.Store
	// Shutdown is called by RequestShutdown. Defaults to sending SIGINT to
	// the current process.
	Shutdown func()
	// Updates, when set, is consulted once at start.
	Updates UpdateChecker
}

// Daemon owns the running indicator.
type Daemon struct {
	store   *config.Store
	ctrl    *cycle.Controller
	sched   *scheduler.Scheduler
	watcher *watcher.Watcher
	logger  *zap.Logger
	clock   clock.Clock

	notifier cycle.Notifier
	updates  UpdateChecker
	shutdown func()
	openFile func(string) error

	runCtx  context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped sync.Once
}

// New wires the daemon. The configuration file is read once here so the
// first cycle starts from the persisted settings.
func New(opts Options) (*Daemon, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	if opts.Shutdown == nil {
		opts.Shutdown = signalSelf
	}
	store := opts.Store
	if store == nil {
		var err error
		store, err = config.NewDefaultStore(opts.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to locate configuration: %w", err)
		}
	}
	if err := store.LoadPersisted(); err != nil {
		opts.Logger.Warn("Starting with default configuration", zap.Error(err))
	}

	w, err := watcher.New(opts.Logger.Named("watcher"))
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	ctrl := cycle.NewController(cycle.Deps{
		Store:    store,
		Resolver: plugin.NewLoader(nil, opts.Logger.Named("plugin")),
		Fetcher:  fetch.NewInvoker(opts.Logger.Named("fetch")),
		Renderer: opts.Renderer,
		Notifier: opts.Notifier,
		Clock:    opts.Clock,
		Logger:   opts.Logger.Named("cycle"),
	})
	sched := scheduler.New(ctrl, opts.Clock, opts.Logger.Named("scheduler"))

	d := &Daemon{
		store:    store,
		ctrl:     ctrl,
		sched:    sched,
		watcher:  w,
		logger:   opts.Logger,
		clock:    opts.Clock,
		notifier: opts.Notifier,
		updates:  opts.Updates,
		shutdown: opts.Shutdown,
		openFile: browser.OpenFile,
	}
	sched.AfterCycle = d.followProvider
	return d, nil
}

// Start begins watching files and runs the first cycle. It returns at once.
func (d *Daemon) Start(ctx context.Context) error {
	if err := config.EnsureGlobalDir(); err != nil {
		d.logger.Warn("Failed to create configuration directory", zap.Error(err))
	}
	if err := d.watcher.Start(d.store.Path()); err != nil {
		// Without a watcher edits are picked up at the next timed update.
		d.logger.Warn("Failed to watch configuration", zap.String("path", d.store.Path()), zap.Error(err))
	}

	d.runCtx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(3)
	go func() {
		defer d.wg.Done()
		d.sched.Run(d.runCtx)
	}()
	go func() {
		defer d.wg.Done()
		d.forwardEvents(d.runCtx)
	}()
	go func() {
		defer d.wg.Done()
		d.checkForUpdate(d.runCtx)
	}()

	d.logger.Info("Indicator started", zap.String("config", d.store.Path()))
	return nil
}

// Stop ends the scheduler and the watcher and waits for them.
func (d *Daemon) Stop() {
	d.stopped.Do(func() {
		if d.cancel != nil {
			d.cancel()
		}
		d.watcher.Stop()
		d.wg.Wait()
		d.logger.Info("Indicator stopped")
	})
}

// Refresh implements tray.Controls.
func (d *Daemon) Refresh() {
	d.sched.Refresh()
}

// EditPreferences opens the configuration file in the default handler,
// writing the current settings first if no file exists yet. The watcher picks
// up the saved edit as a preferences commit.
func (d *Daemon) EditPreferences() {
	path := d.store.Path()
	if !config.FileExists(path) && d.runCtx != nil {
		var err error
		if !d.sched.Do(d.runCtx, func() { err = d.store.Persist() }) {
			d.logger.Debug("Preferences not opened, indicator is stopping")
			return
		}
		if err != nil {
			d.logger.Error("Failed to write configuration", zap.Error(err))
			return
		}
	}
	if err := d.openFile(path); err != nil {
		d.logger.Error("Failed to open preferences", zap.String("path", path), zap.Error(err))
	}
}

// RequestShutdown implements tray.Controls.
func (d *Daemon) RequestShutdown() {
	d.shutdown()
}

func (d *Daemon) forwardEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.watcher.Events():
			d.logger.Info("File changed", zap.Stringer("type", ev.Type), zap.String("path", ev.Path))
			switch ev.Type {
			case watcher.EventConfigChanged:
				d.sched.ConfigChanged()
			case watcher.EventProviderChanged:
				d.sched.ProviderChanged()
			}
		}
	}
}

// followProvider runs on the control thread after every cycle.
func (d *Daemon) followProvider() {
	path := d.ctrl.Config().ProviderPathAndFilename
	if plugin.IsBuiltinPath(path) {
		path = ""
	}
	if err := d.watcher.WatchProvider(path); err != nil {
		d.logger.Debug("Failed to watch provider", zap.String("path", path), zap.Error(err))
	}
}

func signalSelf() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(syscall.SIGINT)
}

// LogRenderer writes each rendered menu to the log. Used when no tray is shown.
type LogRenderer struct {
	Logger *zap.Logger
}

// Render implements cycle.Renderer.
func (r LogRenderer) Render(root *menu.Node, headline string) {
	if r.Logger == nil {
		return
	}
	r.Logger.Info("Menu updated", zap.String("headline", headline), zap.String("menu", menu.Text(root)))
}
