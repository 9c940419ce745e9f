package main

import (
	"github.com/spf13/cobra"

	"github.com/portfolix/portfolix/internal/alerts"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the rebalancing drift sweep once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		sweeper := alerts.NewSweeper(cmd.Context(), env.Store, cfg.Alerts)
		return sweeper.Sweep(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
