package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"deskprefs/internal/container"
	domain "deskprefs/internal/domain/preferences"
)

var decoderFlags struct {
	name       string
	enable     bool
	auto       bool
	encodePath string
	encodeArgs []string
	decodePath string
	decodeArgs []string
}

var decoderCmd = &cobra.Command{
	Use:   "decoder",
	Short: "Manage custom decoders",
}

var decoderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List custom decoders",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer(cmd.Context(), container.Options{})
		if err != nil {
			return err
		}
		defer c.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tENABLED\tAUTO\tDECODE\tENCODE")
		for _, d := range c.Store().Preferences().Decoder {
			fmt.Fprintf(w, "%s\t%t\t%t\t%s\t%s\n",
				d.Name, d.Enable, d.Auto,
				commandLine(d.DecodePath, d.DecodeArgs),
				commandLine(d.EncodePath, d.EncodeArgs))
		}
		return w.Flush()
	},
}

var decoderAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom decoder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := domain.DecoderConfig{Name: args[0]}
		applyDecoderFlags(cmd.Flags(), &cfg, true)

		return withSavedStore(cmd, func(c *container.Container) error {
			if !c.Store().AddCustomDecoder(cfg) {
				return fmt.Errorf("decoder %q already exists", cfg.Name)
			}
			logger.Info("Decoder added", "name", cfg.Name)
			return nil
		})
	},
}

var decoderUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Change a custom decoder; only the given flags are applied",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSavedStore(cmd, func(c *container.Container) error {
			store := c.Store()
			cfg, ok := store.Decoders().Get(args[0])
			if !ok {
				return fmt.Errorf("decoder %q not found", args[0])
			}
			applyDecoderFlags(cmd.Flags(), &cfg, false)
			if !store.UpdateCustomDecoder(args[0], cfg) {
				return fmt.Errorf("decoder %q already exists", cfg.Name)
			}
			logger.Info("Decoder updated", "name", cfg.Name)
			return nil
		})
	},
}

var decoderRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a custom decoder",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSavedStore(cmd, func(c *container.Container) error {
			if !c.Store().RemoveCustomDecoder(args[0]) {
				return fmt.Errorf("decoder %q not found", args[0])
			}
			logger.Info("Decoder removed", "name", args[0])
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{decoderAddCmd, decoderUpdateCmd} {
		f := c.Flags()
		f.BoolVar(&decoderFlags.enable, "enable", true, "Enable the decoder")
		f.BoolVar(&decoderFlags.auto, "auto", true, "Try the decoder automatically")
		f.StringVar(&decoderFlags.encodePath, "encode-path", "", "Encoder executable")
		f.StringSliceVar(&decoderFlags.encodeArgs, "encode-args", nil, "Encoder arguments")
		f.StringVar(&decoderFlags.decodePath, "decode-path", "", "Decoder executable")
		f.StringSliceVar(&decoderFlags.decodeArgs, "decode-args", nil, "Decoder arguments")
	}
	decoderUpdateCmd.Flags().StringVar(&decoderFlags.name, "name", "", "New decoder name")

	decoderCmd.AddCommand(decoderListCmd)
	decoderCmd.AddCommand(decoderAddCmd)
	decoderCmd.AddCommand(decoderUpdateCmd)
	decoderCmd.AddCommand(decoderRemoveCmd)
}

// applyDecoderFlags copies the flags set on the command line into cfg. New
// decoders also take the enable and auto defaults.
func applyDecoderFlags(flags *pflag.FlagSet, cfg *domain.DecoderConfig, isNew bool) {
	if flags.Changed("name") {
		cfg.Name = decoderFlags.name
	}
	if flags.Changed("enable") || isNew {
		cfg.Enable = decoderFlags.enable
	}
	if flags.Changed("auto") || isNew {
		cfg.Auto = decoderFlags.auto
	}
	if flags.Changed("encode-path") {
		cfg.EncodePath = decoderFlags.encodePath
	}
	if flags.Changed("encode-args") {
		cfg.EncodeArgs = decoderFlags.encodeArgs
	}
	if flags.Changed("decode-path") {
		cfg.DecodePath = decoderFlags.decodePath
	}
	if flags.Changed("decode-args") {
		cfg.DecodeArgs = decoderFlags.decodeArgs
	}
}

// withSavedStore runs fn against a loaded store and saves when fn succeeds.
func withSavedStore(cmd *cobra.Command, fn func(c *container.Container) error) error {
	c, err := openContainer(cmd.Context(), container.Options{})
	if err != nil {
		return err
	}
	defer c.Close()

	if err := fn(c); err != nil {
		return err
	}
	return c.Store().Save(cmd.Context())
}

func commandLine(path string, args []string) string {
	if path == "" {
		return "-"
	}
	return strings.TrimSpace(path + " " + strings.Join(args, " "))
}
