package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/indicator-tide/indicator-tide/internal/config"
)

var configYAML bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one configuration value",
	Long: fmt.Sprintf(`Change one configuration value and save the file.

Keys: %v`, config.Keys),
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigFile()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configYAML, "yaml", false, "Print as YAML")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	store, err := openStore(logger)
	if err != nil {
		return err
	}

	if configYAML {
		data, err := yaml.Marshal(store.Config())
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Print(string(data))
		return nil
	}

	rec := store.Save()
	for _, key := range config.Keys {
		fmt.Printf("%s %s\n", styleLabel.Render(fmt.Sprintf("%-30s", key)), styleValue.Render(fmt.Sprint(rec[key])))
	}
	if !config.FileExists(store.Path()) {
		fmt.Println(styleHint.Render("(defaults; " + store.Path() + " does not exist)"))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	store, err := openStore(logger)
	if err != nil {
		return err
	}

	rec := store.Save()
	if err := rec.Set(args[0], args[1]); err != nil {
		return err
	}
	cfg, err := rec.Configuration()
	if err != nil {
		return err
	}
	store.SetConfig(cfg)
	if err := store.Persist(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("%s %s = %v\n", styleSuccess.Render("Set"), args[0], rec[args[0]])
	if err := cfg.Validate(); err != nil {
		fmt.Println(styleWarning.Render("Configuration incomplete: " + err.Error()))
	}
	return nil
}
