package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rv %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n  built:  %s\n  go:     %s\n", GitCommit, BuildDate, runtime.Version())
			return nil
		},
	}
}
