// Package cli implements the indicator-tide commands.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/indicator-tide/indicator-tide/internal/config"
	"github.com/indicator-tide/indicator-tide/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "indicator-tide",
	Short: "Tidal high and low waters in the system tray",
	Long: `indicator-tide shows upcoming tidal events in the system tray.

Readings come from a provider: a Go source file interpreted at runtime, or a
builtin such as builtin:noaa. The tray itself is run by indicator-tided; this
command edits its preferences and inspects providers.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level for command output (debug, info, warn, error)")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger returns a console logger at the --log-level.
func newLogger() (*zap.Logger, error) {
	return logging.New(logging.Options{Level: logLevel, Console: true})
}

// openStore returns the default store with the persisted configuration loaded.
// Malformed values are reported but not fatal.
func openStore(logger *zap.Logger) (*config.Store, error) {
	store, err := config.NewDefaultStore(logger)
	if err != nil {
		return nil, err
	}
	if err := store.LoadPersisted(); err != nil {
		logger.Warn("Configuration partly defaulted", zap.Error(err))
	}
	return store, nil
}
