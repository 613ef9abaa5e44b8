// Package cycle owns the applet state and runs one update at a time:
// resolve configuration, load the provider, fetch readings, build the menu.
package cycle

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/indicator-tide/indicator-tide/internal/clock"
	"github.com/indicator-tide/indicator-tide/internal/config"
	"github.com/indicator-tide/indicator-tide/internal/menu"
	"github.com/indicator-tide/indicator-tide/internal/models"
	"github.com/indicator-tide/indicator-tide/internal/plugin"
	"github.com/indicator-tide/indicator-tide/pkg/tidesdk"
)

const (
	// DefaultInterval is the number of seconds until the next update.
	DefaultInterval = 30 * 60
	// URLTimeoutSeconds is handed to providers for their network calls.
	URLTimeoutSeconds = 20
	// NotificationTitle heads every desktop notification.
	NotificationTitle = "Tidal information"
)

// Renderer displays a menu tree and headline.
type Renderer interface {
	Render(root *menu.Node, headline string)
}

// Notifier shows desktop notifications.
type Notifier interface {
	Notify(title, message string) error
}

// Resolver turns the configured provider into a callable handle.
type Resolver interface {
	Resolve(path, className string) (*plugin.Handle, error)
}

// Fetcher calls a provider.
type Fetcher interface {
	Fetch(h *plugin.Handle, timeoutSeconds, durationDays int, seaportID string) ([]tidesdk.Reading, error)
}

// Deps are the collaborators of a Controller. Clock and Logger are optional.
type Deps struct {
	Store    *config.Store
	Resolver Resolver
	Fetcher  Fetcher
	Renderer Renderer
	Notifier Notifier
	Clock    clock.Clock
	Logger   *zap.Logger
}

// Controller is not safe for concurrent use; the scheduler serializes calls.
type Controller struct {
	store    *config.Store
	resolver Resolver
	fetcher  Fetcher
	renderer Renderer
	notifier Notifier
	clock    clock.Clock
	logger   *zap.Logger

	handle   *plugin.Handle
	headline string
}

// NewController creates a controller.
func NewController(d Deps) *Controller {
	if d.Clock == nil {
		d.Clock = clock.NewReal()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Controller{
		store:    d.Store,
		resolver: d.Resolver,
		fetcher:  d.Fetcher,
		renderer: d.Renderer,
		notifier: d.Notifier,
		clock:    d.Clock,
		logger:   d.Logger,
	}
}

// Update runs one cycle, renders the result and returns the number of
// seconds until the next one. It never fails.
func (c *Controller) Update() int {
	root := c.safeRun()
	if c.renderer != nil {
		c.renderer.Render(root, c.headline)
	}
	return DefaultInterval
}

func (c *Controller) safeRun() (root *menu.Node) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Update cycle panicked", zap.Any("panic", r))
			root = menu.Message(menu.LabelFetchError)
		}
	}()
	return c.run()
}

func (c *Controller) run() *menu.Node {
	if err := c.store.ResolveAtUpdateTime(); err != nil {
		c.logger.Warn("Could not read configuration from disk", zap.Error(err))
	}

	cfg := c.store.Config()
	if cfg.ProviderPathAndFilename == "" {
		c.logger.Info("Provider not configured")
		return menu.Message(menu.LabelScriptNotSet)
	}

	if c.handle == nil {
		h, err := c.resolver.Resolve(cfg.ProviderPathAndFilename, cfg.ProviderClassName)
		if err != nil {
			c.logger.Error("Failed to load provider",
				zap.String("path", cfg.ProviderPathAndFilename),
				zap.String("class", cfg.ProviderClassName),
				zap.Error(err))
			c.notify(resolveMessage(err, cfg))
			return menu.Message(menu.LabelScriptError)
		}
		c.handle = h
	}

	readings, err := c.fetcher.Fetch(c.handle, URLTimeoutSeconds, cfg.DurationDays, cfg.SeaportID)
	if err != nil {
		c.logger.Error("Error getting tidal data from provider",
			zap.String("path", cfg.ProviderPathAndFilename),
			zap.String("class", cfg.ProviderClassName),
			zap.Error(err))
		c.notify(fmt.Sprintf("Error getting tidal data from user script: %s. Check the log for details.",
			cfg.ProviderPathAndFilename))
		return menu.Message(menu.LabelFetchError)
	}

	return c.BuildMenu(readings)
}

// BuildMenu lays out readings using the current configuration and updates
// the headline.
func (c *Controller) BuildMenu(readings []tidesdk.Reading) *menu.Node {
	cfg := c.store.Config()
	root, status := menu.Build(readings, menu.Options{
		ShowAsSubmenus: cfg.ShowAsSubmenus,
		ExceptFirstDay: cfg.ShowAsSubmenusExceptFirstDay,
		Today:          tidesdk.FormatDate(c.clock.Now()),
	})
	if status == menu.StatusNoData {
		c.logger.Info("No tidal readings to display")
		c.headline = menu.HeadlineNoData
	} else {
		c.headline = readings[0].Location
	}
	return root
}

// LoadConfig applies a host-supplied record. The cached provider is dropped
// when the provider path or class changes.
func (c *Controller) LoadConfig(rec config.Record) error {
	before := c.store.Config()
	err := c.store.Load(rec)
	if before.ProviderChanged(c.store.Config()) {
		c.Invalidate()
	}
	return err
}

// ReloadConfig re-reads the configuration file. A missing file changes nothing.
func (c *Controller) ReloadConfig() error {
	rec, err := c.store.ReadPersisted()
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	return c.LoadConfig(rec)
}

// SaveConfig returns the record to persist.
func (c *Controller) SaveConfig() config.Record {
	return c.store.Save()
}

// ApplyPreferences commits edited preferences: they are validated, stored,
// persisted, and the cached provider is dropped even if it did not change.
func (c *Controller) ApplyPreferences(cfg models.Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.store.SetConfig(cfg)
	c.Invalidate()
	if err := c.store.Persist(); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// Invalidate forces the provider to be loaded again on the next cycle.
func (c *Controller) Invalidate() {
	if c.handle != nil {
		c.logger.Debug("Provider invalidated", zap.String("path", c.handle.Path))
	}
	c.handle = nil
}

// Config returns the active configuration.
func (c *Controller) Config() models.Configuration {
	return c.store.Config()
}

// Headline returns the label shown next to the icon.
func (c *Controller) Headline() string {
	return c.headline
}

// Loaded reports whether a provider handle is cached.
func (c *Controller) Loaded() bool {
	return c.handle != nil
}

func (c *Controller) notify(message string) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Notify(NotificationTitle, message); err != nil {
		c.logger.Debug("Notification failed", zap.Error(err))
	}
}

func resolveMessage(err error, cfg models.Configuration) string {
	var pathErr *plugin.PathError
	var classErr *plugin.ClassError
	switch {
	case errors.As(err, &pathErr):
		return fmt.Sprintf("User script file not found: %s. Please check path in preferences.", cfg.ProviderPathAndFilename)
	case errors.As(err, &classErr):
		return fmt.Sprintf("User script class not found: %s. Check name in preferences.", cfg.ProviderClassName)
	}
	return fmt.Sprintf("Error loading user script: %s. Check the log for details.", cfg.ProviderPathAndFilename)
}
