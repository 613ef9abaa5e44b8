package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/indicator-tide/indicator-tide/internal/config"
	"github.com/indicator-tide/indicator-tide/internal/cycle"
	"github.com/indicator-tide/indicator-tide/internal/providers/admiralty"
	"github.com/indicator-tide/indicator-tide/internal/tui"
)

var prefsCmd = &cobra.Command{
	Use:     "prefs",
	Aliases: []string{"preferences"},
	Short:   "Edit preferences in a terminal dialog",
	Long: `Edit the indicator preferences interactively.

Saving validates the values and writes them to the configuration file. A
running indicator notices the change, reloads the provider and refreshes.`,
	RunE: runPrefs,
}

func runPrefs(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("prefs needs an interactive terminal; use 'indicator-tide config set' instead")
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := openStore(logger)
	if err != nil {
		return err
	}
	ctrl := cycle.NewController(cycle.Deps{Store: store, Logger: logger.Named("cycle")})

	if err := config.LoadProviderEnv(); err != nil {
		logger.Warn("Could not read provider environment", zap.Error(err))
	}
	cfg := store.Config()
	stations := prefsStations(cfg, os.Getenv(admiralty.APIKeyEnvVar) != "")

	saved, err := tui.Run(cfg, store.Path(), ctrl.ApplyPreferences, stations)
	if err != nil {
		return err
	}
	if !saved {
		fmt.Println(styleHint.Render("Preferences unchanged."))
		return nil
	}

	fmt.Printf("%s %s\n", styleSuccess.Render("Preferences saved to"), store.Path())
	if running, _, _ := config.IsDaemonRunning(); !running {
		fmt.Println(styleHint.Render("The indicator is not running. Start it with 'indicator-tide daemon start'."))
	}
	return nil
}
