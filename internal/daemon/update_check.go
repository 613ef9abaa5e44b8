package daemon

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/indicator-tide/indicator-tide/internal/config"
	"github.com/indicator-tide/indicator-tide/internal/updater"
)

// UpdateCheckInterval is the minimum time between two release checks.
const UpdateCheckInterval = 24 * time.Hour

// UpdateChecker looks for a newer release.
type UpdateChecker interface {
	Check(ctx context.Context) (*updater.Result, error)
}

// checkForUpdate runs at most once per UpdateCheckInterval across launches
// and notifies when a newer release exists.
func (d *Daemon) checkForUpdate(ctx context.Context) {
	if d.updates == nil {
		return
	}

	state, err := config.LoadUpdateState()
	if err != nil {
		d.logger.Warn("Failed to load update state", zap.Error(err))
		return
	}
	if !state.LastChecked.IsZero() && d.clock.Now().Sub(state.LastChecked) < UpdateCheckInterval {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	result, err := d.updates.Check(ctx)
	if err != nil {
		d.logger.Info("Update check failed", zap.Error(err))
		return
	}

	state.LastChecked = d.clock.Now()
	state.LatestVersion = result.LatestVersion
	state.ReleaseURL = result.ReleaseURL
	if err := config.SaveUpdateState(state); err != nil {
		d.logger.Warn("Failed to save update state", zap.Error(err))
	}

	if !result.Available {
		d.logger.Info("Up to date", zap.String("version", result.CurrentVersion))
		return
	}
	d.logger.Info("Update available",
		zap.String("current", result.CurrentVersion),
		zap.String("latest", result.LatestVersion))
	if d.notifier != nil {
		msg := fmt.Sprintf("indicator-tide %s is available: %s", result.LatestVersion, result.ReleaseURL)
		if err := d.notifier.Notify("indicator-tide", msg); err != nil {
			d.logger.Debug("Notification failed", zap.Error(err))
		}
	}
}
