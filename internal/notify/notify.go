// Package notify shows desktop notifications.
package notify

import (
	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

// AppName is reported to the notification daemon.
const AppName = "indicator-tide"

// Desktop sends notifications through the platform notification service.
type Desktop struct {
	logger *zap.Logger
	send   func(title, message string, icon any) error
}

// NewDesktop creates a desktop notifier.
func NewDesktop(logger *zap.Logger) *Desktop {
	if logger == nil {
		logger = zap.NewNop()
	}
	beeep.AppName = AppName
	return &Desktop{logger: logger, send: beeep.Notify}
}

// Notify shows a notification.
func (d *Desktop) Notify(title, message string) error {
	d.logger.Debug("Sending notification", zap.String("title", title), zap.String("message", message))
	return d.send(title, message, "")
}

// Log records notifications instead of showing them. Used in headless mode.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Notify(title, message string) error {
	if l.Logger != nil {
		l.Logger.Warn(message, zap.String("title", title))
	}
	return nil
}
