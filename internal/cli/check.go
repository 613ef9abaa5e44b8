package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/indicator-tide/indicator-tide/internal/cycle"
	"github.com/indicator-tide/indicator-tide/internal/fetch"
	"github.com/indicator-tide/indicator-tide/internal/menu"
	"github.com/indicator-tide/indicator-tide/internal/models"
	"github.com/indicator-tide/indicator-tide/internal/plugin"
)

var checkFlags struct {
	provider string
	class    string
	seaport  string
	days     int
	submenus bool
	except   bool
	plain    bool
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one update and print the menu",
	Long: `Run one update cycle without the tray and print the resulting menu.

Flags override the saved configuration for this run only, which makes check a
quick way to try a provider before saving it in the preferences.`,
	RunE: runCheck,
}

func init() {
	addCheckFlags(checkCmd.Flags())
}

func addCheckFlags(f *pflag.FlagSet) {
	f.StringVar(&checkFlags.provider, "provider", "", "Provider path and filename, or builtin:<name>")
	f.StringVar(&checkFlags.class, "class", "", "Provider class name")
	f.StringVar(&checkFlags.seaport, "seaport", "", "Seaport ID")
	f.IntVar(&checkFlags.days, "days", 0, "Duration in days")
	f.BoolVar(&checkFlags.submenus, "submenus", false, "Group readings by day")
	f.BoolVar(&checkFlags.except, "except-first-day", false, "Keep today's readings at the top level")
	f.BoolVar(&checkFlags.plain, "plain", false, "Disable colors")
}

// captureRenderer keeps the last rendered menu.
type captureRenderer struct {
	root     *menu.Node
	headline string
}

func (r *captureRenderer) Render(root *menu.Node, headline string) {
	r.root = root
	r.headline = headline
}

// collectNotifier keeps notifications so they can be printed after the run.
type collectNotifier struct {
	messages []string
}

func (n *collectNotifier) Notify(title, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := openStore(logger)
	if err != nil {
		return err
	}
	cfg, err := applyCheckOverrides(cmd, store.Config())
	if err != nil {
		return err
	}
	store.SetConfig(cfg)

	out := &captureRenderer{}
	notes := &collectNotifier{}
	ctrl := cycle.NewController(cycle.Deps{
		Store:    store,
		Resolver: plugin.NewLoader(nil, logger.Named("plugin")),
		Fetcher:  fetch.NewInvoker(logger.Named("fetch")),
		Renderer: out,
		Notifier: notes,
		Logger:   logger.Named("cycle"),
	})
	ctrl.Update()

	styled := !checkFlags.plain && stdoutIsTerminal()
	if out.headline != "" {
		if styled {
			fmt.Println(styleBrand.Render(out.headline))
		} else {
			fmt.Println(out.headline)
		}
	}
	fmt.Print(renderTree(out.root, styled))

	for _, msg := range notes.messages {
		fmt.Println(styleError.Render(msg))
	}
	if len(notes.messages) > 0 {
		logger.Debug("Check finished with errors", zap.Int("count", len(notes.messages)))
		return fmt.Errorf("update failed")
	}
	return nil
}

func applyCheckOverrides(cmd *cobra.Command, cfg models.Configuration) (models.Configuration, error) {
	f := cmd.Flags()
	if f.Changed("provider") {
		cfg.ProviderPathAndFilename = checkFlags.provider
	}
	if f.Changed("class") {
		cfg.ProviderClassName = checkFlags.class
	}
	if f.Changed("seaport") {
		cfg.SeaportID = checkFlags.seaport
	}
	if f.Changed("days") {
		if !models.ValidDurationDays(checkFlags.days) {
			return cfg, fmt.Errorf("--days: %w", models.ErrDurationOutOfRange)
		}
		cfg.DurationDays = checkFlags.days
	}
	if f.Changed("submenus") {
		cfg.ShowAsSubmenus = checkFlags.submenus
	}
	if f.Changed("except-first-day") {
		cfg.ShowAsSubmenusExceptFirstDay = checkFlags.except
	}
	if plugin.IsBuiltinPath(cfg.ProviderPathAndFilename) && cfg.ProviderClassName == "" {
		cfg.ProviderClassName = cfg.ProviderPathAndFilename[len(plugin.BuiltinScheme):]
	}
	return cfg, nil
}
