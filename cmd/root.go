package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/portfolix/portfolix/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "portfolix",
	Short: "Deterministic portfolio recommendation service",
	Long:  "Scores a three-question risk questionnaire, maps it to a fixed allocation archetype, projects costs and outcomes, and serves the result over HTTP with quota-gated persistence and Pro AI suggestions.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
