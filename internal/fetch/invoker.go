// Package fetch calls a resolved provider and normalises its failures.
package fetch

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/indicator-tide/indicator-tide/internal/config"
	"github.com/indicator-tide/indicator-tide/internal/plugin"
	"github.com/indicator-tide/indicator-tide/pkg/tidesdk"
)

// DataFetchError wraps anything that went wrong while a provider ran.
type DataFetchError struct {
	Message string
	Err     error
}

func (e *DataFetchError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DataFetchError) Unwrap() error { return e.Err }

// Invoker runs provider entry points.
type Invoker struct {
	logger  *zap.Logger
	loadEnv func() error
}

// NewInvoker creates an invoker that loads ~/.tide/.env before each call.
func NewInvoker(logger *zap.Logger) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{logger: logger, loadEnv: config.LoadProviderEnv}
}

// Fetch calls the provider behind h. The timeout is handed to the provider;
// the invoker itself imposes no deadline.
func (inv *Invoker) Fetch(h *plugin.Handle, timeoutSeconds, durationDays int, seaportID string) (readings []tidesdk.Reading, err error) {
	entry := h.Entry()
	if entry == nil {
		return nil, &DataFetchError{Message: "provider is not callable"}
	}

	if inv.loadEnv != nil {
		if envErr := inv.loadEnv(); envErr != nil {
			inv.logger.Warn("Failed to load provider environment", zap.Error(envErr))
		}
	}

	req := tidesdk.Request{
		Logger:              inv.logger.Named("provider").Sugar(),
		URLTimeoutInSeconds: timeoutSeconds,
		DurationDays:        durationDays,
		SeaportID:           seaportID,
	}

	defer func() {
		if r := recover(); r != nil {
			inv.logger.Error("Provider panicked",
				zap.String("provider", h.Path),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			readings = nil
			err = &DataFetchError{Message: "provider panicked", Err: fmt.Errorf("%v", r)}
		}
	}()

	readings, err = entry(req)
	if err != nil {
		return nil, &DataFetchError{Message: "provider failed", Err: err}
	}
	inv.logger.Debug("Provider returned readings",
		zap.String("provider", h.Path),
		zap.Int("count", len(readings)))
	return readings, nil
}
