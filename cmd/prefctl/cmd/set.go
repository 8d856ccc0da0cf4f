package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"deskprefs/internal/container"
)

var setCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Change a single preference and save",
	Long: `Change a single preference and save. The value is read as JSON when
it parses as JSON, otherwise as a plain string:

  prefctl set general.theme dark
  prefctl set editor.fontSize 16
  prefctl set cli.fontFamily '["Fira Code"]'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := patchDocument(args[0], args[1])
		if err != nil {
			return err
		}

		c, err := openContainer(cmd.Context(), container.Options{})
		if err != nil {
			return err
		}
		defer c.Close()

		store := c.Store()
		if err := store.ApplyDocument(doc); err != nil {
			return err
		}
		if err := store.Save(cmd.Context()); err != nil {
			return err
		}
		logger.Info("Preference saved", "path", args[0])
		return nil
	},
}

// patchDocument builds a partial preferences document holding one value.
func patchDocument(path, value string) ([]byte, error) {
	if !gjson.Valid(value) {
		return sjson.SetBytes([]byte(`{}`), path, value)
	}
	doc, err := sjson.SetRawBytes([]byte(`{}`), path, []byte(value))
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	return doc, nil
}
