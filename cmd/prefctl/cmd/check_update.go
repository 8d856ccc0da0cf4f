package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"deskprefs/internal/container"
	"deskprefs/internal/services"
)

var (
	checkManual bool
	checkAction string
)

var checkUpdateCmd = &cobra.Command{
	Use:   "check-update",
	Short: "Ask the release endpoint for a newer version",
	Long: `Ask the release endpoint for a newer version. Without --manual a
version recorded as skipped is not offered. --action answers the offer:
skip records the version as skipped, open shows the release page and
later does nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch services.UpdateAction(checkAction) {
		case "", services.ActionSkip, services.ActionLater, services.ActionOpen:
		default:
			return fmt.Errorf("unknown action %q", checkAction)
		}

		c, err := openContainer(cmd.Context(), container.Options{})
		if err != nil {
			return err
		}
		defer c.Close()

		notice, ok := c.Checker().Check(cmd.Context(), checkManual)
		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintln(out, "No update available")
			return nil
		}
		fmt.Fprintf(out, "Update available: %s (current %s)\n%s\n", notice.Latest, notice.Current, notice.PageURL)

		if checkAction == "" {
			return nil
		}
		return c.Checker().Resolve(cmd.Context(), notice.ID, services.UpdateAction(checkAction))
	},
}

func init() {
	checkUpdateCmd.Flags().BoolVarP(&checkManual, "manual", "m", false, "Offer the latest version even if it was skipped")
	checkUpdateCmd.Flags().StringVarP(&checkAction, "action", "a", "", "Answer to the offer (skip, later, open)")
}
