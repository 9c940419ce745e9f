package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var portfoliosUser string

var portfoliosCmd = &cobra.Command{
	Use:   "portfolios",
	Short: "Inspect saved portfolios",
}

var portfoliosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's saved portfolios",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		portfolios, err := env.Store.ListPortfolios(cmd.Context(), portfoliosUser)
		if err != nil {
			return err
		}

		p := message.NewPrinter(language.English)
		if len(portfolios) == 0 {
			p.Printf("no portfolios for user %s\n", portfoliosUser)
			return nil
		}
		for _, pf := range portfolios {
			p.Printf("%s  %-20s risk=%.1f  amount=$%.2f  assets=%d  created=%s\n",
				pf.ID, pf.Name, pf.RiskScore, pf.InvestmentAmount, len(pf.Assets),
				pf.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var portfoliosShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one portfolio as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		pf, err := env.Store.GetPortfolio(cmd.Context(), portfoliosUser, args[0])
		if err != nil {
			return err
		}
		if pf == nil {
			return eris.Errorf("portfolio not found: %s", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pf)
	},
}

var portfoliosDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a portfolio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		return env.Store.DeletePortfolio(cmd.Context(), portfoliosUser, args[0])
	},
}

func init() {
	portfoliosCmd.PersistentFlags().StringVar(&portfoliosUser, "user", "", "user ID owning the portfolios")
	portfoliosCmd.MarkPersistentFlagRequired("user")
	portfoliosCmd.AddCommand(portfoliosListCmd, portfoliosShowCmd, portfoliosDeleteCmd)
	rootCmd.AddCommand(portfoliosCmd)
}
