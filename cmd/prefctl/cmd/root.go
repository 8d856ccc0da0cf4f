package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"deskprefs/internal/container"
)

var (
	verbose   bool
	quiet     bool
	dataDir   string
	updateURL string
	logger    *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "prefctl",
	Short: "Inspect and edit DeskPrefs preferences",
	Long: `prefctl reads and writes the preference database of the
desktop application without starting a window.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()
		return nil
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		if logger == nil {
			setupLogger()
		}
		logger.Error(err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&updateURL, "update-url", "", "Release endpoint used by check-update")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(decoderCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(fontsCmd)
	rootCmd.AddCommand(checkUpdateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogger() {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	if quiet {
		level = log.WarnLevel
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: verbose,
		TimeFormat:      time.Kitchen,
		Level:           level,
	})
}

// openContainer builds the service container for the selected data
// directory and loads the stored preferences.
func openContainer(ctx context.Context, opts container.Options) (*container.Container, error) {
	cfg := loadConfig()
	c, err := container.New(cfg, opts)
	if err != nil {
		return nil, err
	}
	if err := c.Store().Load(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("loading preferences: %w", err)
	}
	logger.Debug("Preferences loaded", "database", cfg.DatabasePath)
	return c, nil
}
