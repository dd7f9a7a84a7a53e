// Package cli holds the materai command tree.
package cli

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "materai",
		Short:        "Materai document submission service",
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newOptionsCmd())
	cmd.AddCommand(newSubmitCmd())
	cmd.AddCommand(newTokenCmd())
	return cmd
}

func Execute() error {
	return newRootCmd().Execute()
}
