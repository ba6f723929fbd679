package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liquidlens/liquidlens/pkg/check"
)

// checksCommand creates the checks command, which lists the available
// checks with their default severities.
func (c *CLI) checksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List the available checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, def := range check.Default().Definitions() {
				fmt.Fprintf(out, "%s %s %s\n",
					StyleHighlight.Render(def.Code),
					severityStyle(def.DefaultSeverity).Render(def.DefaultSeverity.String()),
					StyleDim.Render(def.Name))
				if def.Docs != "" {
					fmt.Fprintf(out, "  %s\n", StyleValue.Render(def.Docs))
				}
			}
			return nil
		},
	}
}
