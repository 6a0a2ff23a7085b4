package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/agraph/internal/flowfile"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <flow-file>",
		Short: "Validate a flow file without running it",
		Long: `Validate a flow file's structure: version, cell declarations, and
start activation. Registry name collisions are reported at run time,
when the cells actually register.

Example:
  agraph validate ./flow.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flow, err := flowfile.Load(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "flow validation failed", err)
			}

			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if rootOpts.Format == "json" {
				return formatter.Success(map[string]any{
					"cells": len(flow.Cells),
					"start": flow.Start.Cell,
				})
			}
			return formatter.Success(fmt.Sprintf("flow ok: %d cells, start=%s", len(flow.Cells), flow.Start.Cell))
		},
	}

	return cmd
}
