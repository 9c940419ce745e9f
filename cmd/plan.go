package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/portfolix/portfolix/internal/model"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect or change a user's subscription plan",
}

var planGetCmd = &cobra.Command{
	Use:   "get <user>",
	Short: "Print a user's plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		plan, err := env.Store.GetPlan(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(plan)
		return nil
	},
}

var planSetCmd = &cobra.Command{
	Use:   "set <user> <free|pro>",
	Short: "Set a user's plan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan := model.Plan(args[1])
		if plan != model.PlanFree && plan != model.PlanPro {
			return eris.Errorf("unknown plan: %s", args[1])
		}

		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		return env.Gate.SetPlan(cmd.Context(), args[0], plan)
	},
}

func init() {
	planCmd.AddCommand(planGetCmd, planSetCmd)
	rootCmd.AddCommand(planCmd)
}
