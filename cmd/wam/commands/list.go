package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/wam/internal/app"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the addons recorded in the lock file",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.List(cmd.Context(), app.ListOptions{})
		},
	}
}
