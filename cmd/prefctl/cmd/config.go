package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"deskprefs/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the application configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write config.yaml with the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		path := cfg.FilePath()

		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		if err := cfg.Save(); err != nil {
			return err
		}
		logger.Info("Configuration written", "path", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(loadConfig())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config.yaml")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// loadConfig resolves the configuration for the selected data directory with
// the command-line overrides applied.
func loadConfig() *config.Config {
	cfg := config.NewWithDataDir(Version, dataDir)
	cfg.Logger = slog.New(logger)
	if updateURL != "" {
		cfg.UpdateURL = updateURL
	}
	return cfg
}
