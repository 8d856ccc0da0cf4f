package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"deskprefs/internal/container"
)

var (
	showPath   string
	showFormat string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored preferences",
	Long: `Print the stored preferences, or the part selected with --path
(for example "general" or "editor.fontSize").`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer(cmd.Context(), container.Options{})
		if err != nil {
			return err
		}
		defer c.Close()

		doc, err := json.Marshal(c.Store().Preferences())
		if err != nil {
			return err
		}

		raw := string(doc)
		if showPath != "" {
			res := gjson.GetBytes(doc, showPath)
			if !res.Exists() {
				return fmt.Errorf("no preference at %q", showPath)
			}
			raw = res.Raw
		}
		return writeDocument(cmd, raw, showFormat)
	},
}

func init() {
	showCmd.Flags().StringVarP(&showPath, "path", "p", "", "Dotted path of the value to print")
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "yaml", "Output format (yaml, json)")
}

// writeDocument prints a JSON value in the requested format. Key order is
// kept by decoding into a yaml.Node.
func writeDocument(cmd *cobra.Command, raw, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		_, err := fmt.Fprintln(out, gjson.Get(raw, "@pretty").String())
		return err
	case "yaml":
		var node yaml.Node
		if err := yaml.Unmarshal([]byte(raw), &node); err != nil {
			return fmt.Errorf("converting to yaml: %w", err)
		}
		blockStyle(&node)
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// blockStyle drops the flow and quoting styles carried over from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
