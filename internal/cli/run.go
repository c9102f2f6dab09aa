package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gogpu/gpuquery/internal/scenario"
)

// NewRunCommand creates the run command.
func NewRunCommand(opts *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "Run scenarios and print their traces",
		Long: `Run one or more scenario files in order and print each trace.

The command exits with status 1 when any expectation fails and with
status 2 when a scenario cannot be loaded or run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd.OutOrStdout())
		},
	}
}

func runScenarios(opts *Config, paths []string, w io.Writer) error {
	runner := scenario.Runner{Backend: opts.Backend}

	results := make([]*scenario.Result, 0, len(paths))
	failed := 0
	for i, path := range paths {
		s, err := scenario.Load(path)
		if err != nil {
			if errors.Is(err, scenario.ErrInvalid) {
				return WrapExitError(ExitCommandError, "invalid scenario", err)
			}
			return WrapExitError(ExitCommandError, "load scenario", err)
		}
		res, err := runner.Run(s)
		if err != nil {
			return WrapExitError(ExitCommandError, "run scenario", err)
		}
		if !res.Passed() {
			failed++
		}

		if opts.Format == FormatJSON {
			results = append(results, res)
			continue
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := scenario.WriteText(w, res); err != nil {
			return err
		}
	}

	if opts.Format == FormatJSON {
		if err := writeJSON(w, results); err != nil {
			return err
		}
	}
	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", failed, len(paths)))
	}
	return nil
}
