// Package main is the entry point for the indicator-tided tray daemon.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/indicator-tide/indicator-tide/internal/buildinfo"
	"github.com/indicator-tide/indicator-tide/internal/config"
	"github.com/indicator-tide/indicator-tide/internal/daemon"
	"github.com/indicator-tide/indicator-tide/internal/daemon/tray"
	"github.com/indicator-tide/indicator-tide/internal/logging"
	"github.com/indicator-tide/indicator-tide/internal/models"
	"github.com/indicator-tide/indicator-tide/internal/notify"
	"github.com/indicator-tide/indicator-tide/internal/updater"

	// Builtin providers register themselves.
	_ "github.com/indicator-tide/indicator-tide/internal/providers/admiralty"
	_ "github.com/indicator-tide/indicator-tide/internal/providers/noaa"
)

var (
	foreground    bool
	logLevel      string
	noUpdateCheck bool
)

func main() {
	cmd := &cobra.Command{
		Use:           "indicator-tided",
		Short:         "Tide indicator for the system tray",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.Flags().BoolVar(&foreground, "foreground", false, "Run in foreground without a system tray")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&noUpdateCheck, "no-update-check", false, "Do not look for new releases")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "indicator-tided:", err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	if err := config.EnsureGlobalLogsDir(); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	logFile, err := config.LogFile()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Level: logLevel, File: logFile, Console: foreground})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("indicator already running (PID %d)", info.PID)
	}

	if foreground {
		logger.Info("Running in foreground mode (no system tray)")
		return runForeground(logger)
	}
	logger.Info("Running in background mode (with system tray)")
	return runWithTray(logger)
}

// runForeground runs the indicator without a tray, blocking on signals.
func runForeground(logger *zap.Logger) error {
	d, err := daemon.New(daemon.Options{
		Renderer: daemon.LogRenderer{Logger: logger.Named("menu")},
		Notifier: notify.Log{Logger: logger.Named("notify")},
		Logger:   logger,
		Updates:  updateChecker(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.SaveDaemonInfo(models.NewDaemonInfo(os.Getpid(), "foreground")); err != nil {
		return fmt.Errorf("failed to write daemon info: %w", err)
	}
	defer removeDaemonInfo(logger)

	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	logger.Info("Shutting down")
	d.Stop()
	return nil
}

// runWithTray runs the indicator with a tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS.
func runWithTray(logger *zap.Logger) error {
	d, err := daemon.New(daemon.Options{
		Renderer: tray.Renderer{},
		Notifier: notify.NewDesktop(logger.Named("notify")),
		Logger:   logger,
		Updates:  updateChecker(),
	})
	if err != nil {
		return err
	}

	var startErr error
	onStart := func() {
		if err := config.SaveDaemonInfo(models.NewDaemonInfo(os.Getpid(), "tray")); err != nil {
			startErr = fmt.Errorf("failed to write daemon info: %w", err)
			tray.Quit()
			return
		}
		if err := d.Start(context.Background()); err != nil {
			startErr = err
			tray.Quit()
			return
		}

		// Quit the tray on SIGINT/SIGTERM
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			logger.Info("Received signal, shutting down", zap.Stringer("signal", sig))
			tray.Quit()
		}()
	}

	onExit := func() {
		d.Stop()
		removeDaemonInfo(logger)
	}

	// This blocks the main goroutine until the tray exits.
	tray.Run(d, logger.Named("tray"), onStart, onExit)
	return startErr
}

func updateChecker() daemon.UpdateChecker {
	if noUpdateCheck {
		return nil
	}
	return updater.NewChecker()
}

func removeDaemonInfo(logger *zap.Logger) {
	if err := config.RemoveDaemonInfo(); err != nil {
		logger.Warn("Failed to remove daemon info", zap.Error(err))
	}
}
