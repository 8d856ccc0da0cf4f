package cmd

import (
	"github.com/spf13/cobra"

	"deskprefs/internal/container"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the stored preferences with the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer(cmd.Context(), container.Options{})
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.Store().RestoreToDefault(cmd.Context()); err != nil {
			return err
		}
		logger.Info("Preferences restored to defaults")
		return nil
	},
}
