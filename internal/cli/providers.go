package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/indicator-tide/indicator-tide/internal/config"
	"github.com/indicator-tide/indicator-tide/internal/models"
	"github.com/indicator-tide/indicator-tide/internal/plugin"
	"github.com/indicator-tide/indicator-tide/internal/providers/admiralty"
	"github.com/indicator-tide/indicator-tide/internal/tui"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List builtin providers",
	Run: func(cmd *cobra.Command, args []string) {
		infos := plugin.Builtins().List()
		if len(infos) == 0 {
			fmt.Println("No builtin providers.")
			return
		}
		for _, info := range infos {
			fmt.Printf("%s  %s\n", styleValue.Render(fmt.Sprintf("%-20s", plugin.BuiltinPath(info.Name))), styleHint.Render(info.Description))
		}
	},
}

var providersStationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List Admiralty stations usable as the seaport id",
	Long: `List the UK Admiralty tidal stations, sorted by name.

Needs ADMIRALTY_API_KEY in the environment or in ~/.tide/.env.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadProviderEnv(); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), styleWarning.Render("Could not read provider environment:"), err)
		}
		p, err := admiralty.Default()
		if err != nil {
			return err
		}
		return printStations(cmd.Context(), cmd.OutOrStdout(), p)
	},
}

func init() {
	providersCmd.AddCommand(providersStationsCmd)
}

type stationLister interface {
	Stations(ctx context.Context) ([]admiralty.Station, error)
}

func printStations(ctx context.Context, w io.Writer, lister stationLister) error {
	stations, err := lister.Stations(ctx)
	if err != nil {
		return fmt.Errorf("listing stations: %w", err)
	}
	if len(stations) == 0 {
		fmt.Fprintln(w, "No stations.")
		return nil
	}
	for _, s := range stations {
		fmt.Fprintf(w, "%s  %s\n", styleValue.Render(fmt.Sprintf("%-8s", s.ID)), s.Name)
	}
	return nil
}

// prefsStations offers Admiralty stations in the preferences dialog when the
// builtin Admiralty provider is selected or an Admiralty key is available.
func prefsStations(cfg models.Configuration, haveKey bool) tui.StationsFunc {
	if cfg.ProviderPathAndFilename != plugin.BuiltinPath(admiralty.Name) && !haveKey {
		return nil
	}
	p, err := admiralty.Default()
	if err != nil {
		return nil
	}
	return stationChoices(p)
}

func stationChoices(lister stationLister) tui.StationsFunc {
	return func(ctx context.Context) ([]tui.Station, error) {
		stations, err := lister.Stations(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]tui.Station, 0, len(stations))
		for _, s := range stations {
			out = append(out, tui.Station{ID: s.ID, Label: s.Label()})
		}
		return out, nil
	}
}
