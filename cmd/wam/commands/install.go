package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/wam/internal/app"
	"go.trai.ch/wam/internal/core/domain"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "install",
		Aliases: []string{"sync"},
		Short:   "Download every addon that changed since the last sync",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parallel, _ := cmd.Flags().GetInt("parallel")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			dir, _ := cmd.Flags().GetString("dir")
			outputMode, _ := cmd.Flags().GetString("output-mode")
			ci, _ := cmd.Flags().GetBool("ci")

			if ci {
				outputMode = "linear"
			}

			return c.app.Install(cmd.Context(), app.InstallOptions{
				Overrides: domain.Overrides{
					Parallel:   parallel,
					Timeout:    timeout,
					InstallDir: dir,
					OutputMode: outputMode,
				},
			})
		},
	}
	cmd.Flags().IntP("parallel", "p", 0, "Maximum concurrent requests per stage (default from config, or 5)")
	cmd.Flags().Duration("timeout", 0, "Per-request timeout, for example 30s (default from config)")
	cmd.Flags().StringP("dir", "d", "", "Directory that receives extracted addons (default from config)")
	cmd.Flags().StringP("output-mode", "o", "", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	return cmd
}
