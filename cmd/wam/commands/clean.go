package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/wam/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove leftover downloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lock, _ := cmd.Flags().GetBool("lock")
			return c.app.Clean(cmd.Context(), app.CleanOptions{Lock: lock})
		},
	}

	cmd.Flags().BoolP("lock", "l", false, "Also remove the lock file so the next install downloads everything")

	return cmd
}
