package cli

import "github.com/spf13/cobra"

func newStatsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Dashboard counts: due today, overdue, completed, pending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newController(a)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := c.LoadDashboardStats(cmd.Context()); err != nil {
				return writeErr(cmd, describe(err))
			}
			return writeOut(cmd, a, map[string]any{"data": c.State().Store.Stats})
		},
	}
}
