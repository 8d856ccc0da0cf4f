package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"deskprefs/internal/container"
)

var fontDirs []string

var fontsCmd = &cobra.Command{
	Use:   "fonts",
	Short: "List the installed font families",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer(cmd.Context(), container.Options{FontDirs: fontDirs})
		if err != nil {
			return err
		}
		defer c.Close()

		fonts, err := c.Store().LoadFontList(cmd.Context())
		if err != nil {
			return err
		}
		for _, f := range fonts {
			fmt.Fprintln(cmd.OutOrStdout(), f.Name)
		}
		logger.Debug("Fonts listed", "count", len(fonts))
		return nil
	},
}

func init() {
	fontsCmd.Flags().StringSliceVar(&fontDirs, "dir", nil, "Font directory to scan (repeatable, default: system dirs)")
}
