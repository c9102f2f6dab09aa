// Package cli implements the qsreplay command tree.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/gpuquery"
)

// NewRootCommand creates the qsreplay root command. Flag defaults come from
// the QSREPLAY_* environment; a malformed environment fails every command.
func NewRootCommand() *cobra.Command {
	cfg, cfgErr := LoadConfig()
	opts := &cfg

	cmd := &cobra.Command{
		Use:     "qsreplay",
		Short:   "Replay query set validation scenarios",
		Long:    "qsreplay runs YAML scenarios against the gpuquery validation layer and prints their traces.",
		Version: gpuquery.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return WrapExitError(ExitCommandError, "configuration", cfgErr)
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			lvl, enabled, err := opts.logLevel()
			if err != nil {
				return WrapExitError(ExitCommandError, "configuration", err)
			}
			if enabled {
				gpuquery.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(),
					&slog.HandlerOptions{Level: lvl})))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", opts.Format, "output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", opts.Backend, "backend name (default backend when empty)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "library log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "debug logging to stderr")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewCodesCommand(opts))
	cmd.AddCommand(NewCapabilitiesCommand(opts))

	return cmd
}
