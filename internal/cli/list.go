package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gogpu/gpuquery"
	"github.com/gogpu/gpuquery/internal/capability"
)

// NewCodesCommand creates the codes command.
func NewCodesCommand(opts *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "List validation error codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCodes(opts, cmd.OutOrStdout())
		},
	}
}

type codeEntry struct {
	Value uint8  `json:"value"`
	Name  string `json:"name"`
}

func listCodes(opts *Config, w io.Writer) error {
	codes := gpuquery.ErrorCodes()
	if opts.Format == FormatJSON {
		entries := make([]codeEntry, len(codes))
		for i, c := range codes {
			entries[i] = codeEntry{Value: uint8(c), Name: c.String()}
		}
		return writeJSON(w, entries)
	}
	for _, c := range codes {
		if _, err := fmt.Fprintf(w, "%2d %s\n", uint8(c), c.String()); err != nil {
			return err
		}
	}
	return nil
}

// NewCapabilitiesCommand creates the capabilities command.
func NewCapabilitiesCommand(opts *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "List capability tags and whether the adapter supports them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCapabilities(opts, cmd.OutOrStdout())
		},
	}
}

type capabilityReport struct {
	Adapter      string            `json:"adapter"`
	AdapterType  string            `json:"adapter_type"`
	Capabilities []capabilityEntry `json:"capabilities"`
}

type capabilityEntry struct {
	Tag       string `json:"tag"`
	Supported bool   `json:"supported"`
}

func listCapabilities(opts *Config, w io.Writer) error {
	adapter, err := gpuquery.RequestAdapter(opts.Backend)
	if err != nil {
		return WrapExitError(ExitCommandError, "capabilities", err)
	}
	info := adapter.Info()
	report := capabilityReport{Adapter: info.Name, AdapterType: info.Type.String()}
	for _, tag := range capability.Known() {
		report.Capabilities = append(report.Capabilities, capabilityEntry{
			Tag:       tag,
			Supported: adapter.SupportsCapability(tag),
		})
	}

	if opts.Format == FormatJSON {
		return writeJSON(w, report)
	}
	if _, err := fmt.Fprintf(w, "adapter: %s (%s)\n", report.Adapter, report.AdapterType); err != nil {
		return err
	}
	for _, c := range report.Capabilities {
		mark := "no"
		if c.Supported {
			mark = "yes"
		}
		if _, err := fmt.Fprintf(w, "%-28s %s\n", c.Tag, mark); err != nil {
			return err
		}
	}
	return nil
}
