package main

import (
	"fmt"

	"github.com/danmuck/pngme/internal/commands"
	"github.com/danmuck/pngme/internal/config"
	"github.com/danmuck/pngme/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{cfg: config.DefaultConfig()}

	root := &cobra.Command{
		Use:   "pngme",
		Short: "Hide and recover messages in PNG chunks",
		Long: `pngme stores text messages in ancillary chunks of a PNG file.

Chunk types are four ASCII letters; the third letter must be uppercase.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides "+logging.EnvLogLevel+" and config)")

	root.AddCommand(newEncodeCmd(opts))
	root.AddCommand(newDecodeCmd(opts))
	root.AddCommand(newRemoveCmd(opts))
	root.AddCommand(newPrintCmd(opts))
	return root
}

func (o *rootOptions) load() error {
	logging.ConfigureRuntime()
	if o.configPath != "" {
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		o.cfg = cfg
		log.Debug().Str("path", o.configPath).Msg("loaded config")
	}
	return logging.Override(o.logLevel, o.cfg.LogLevel)
}

func (o *rootOptions) chunkType(flag string) string {
	if flag != "" {
		return flag
	}
	return o.cfg.DefaultChunkType
}

func newEncodeCmd(opts *rootOptions) *cobra.Command {
	var chunkType string
	cmd := &cobra.Command{
		Use:   "encode FILE MESSAGE [OUTPUT]",
		Short: "Append a chunk holding MESSAGE",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := commands.EncodeArgs{
				Path:      args[0],
				ChunkType: opts.chunkType(chunkType),
				Message:   args[1],
			}
			if len(args) == 3 {
				in.Output = args[2]
			}
			return commands.Encode(in, opts.cfg.Limits())
		},
	}
	cmd.Flags().StringVarP(&chunkType, "type", "t", "", "chunk type (defaults to config)")
	return cmd
}

func newDecodeCmd(opts *rootOptions) *cobra.Command {
	var chunkType string
	cmd := &cobra.Command{
		Use:   "decode FILE",
		Short: "Print the message stored in a chunk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := commands.Decode(args[0], opts.chunkType(chunkType), opts.cfg.Limits())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
			return err
		},
	}
	cmd.Flags().StringVarP(&chunkType, "type", "t", "", "chunk type (defaults to config)")
	return cmd
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	var chunkType string
	cmd := &cobra.Command{
		Use:   "remove FILE",
		Short: "Remove the first chunk of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := commands.Remove(args[0], opts.chunkType(chunkType), opts.cfg.Limits())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %s (%d bytes)\n", removed.Type(), removed.Length())
			return err
		},
	}
	cmd.Flags().StringVarP(&chunkType, "type", "t", "", "chunk type (defaults to config)")
	return cmd
}

func newPrintCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "print FILE",
		Short: "List every chunk in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Print(args[0], cmd.OutOrStdout(), opts.cfg.Limits())
		},
	}
}
