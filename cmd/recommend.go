package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/portfolix/portfolix/internal/engine"
	"github.com/portfolix/portfolix/internal/model"
)

var (
	recommendExperience   int
	recommendTimeline     int
	recommendVolatility   int
	recommendAmount       float64
	recommendJSON         bool
	recommendAlternatives bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate a portfolio recommendation from questionnaire answers",
	Long:  "Runs the allocation engine locally: scores the answers, selects an archetype, and prints the allocation with cost and outcome projections. No network, no persistence.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := engine.ComputeRecommendation(model.AnswerSet{
			Experience: recommendExperience,
			Timeline:   recommendTimeline,
			Volatility: recommendVolatility,
		}, recommendAmount)
		if err != nil {
			return err
		}

		if recommendJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}

		printRecommendation(rec)
		if recommendAlternatives {
			printAlternatives(rec.Archetype)
		}
		return nil
	},
}

func printRecommendation(rec *model.Recommendation) {
	p := message.NewPrinter(language.English)

	p.Printf("Risk score:        %.1f / 100\n", rec.Score)
	p.Printf("Archetype:         %s (%s)\n", rec.Archetype, rec.StrategyName)
	p.Printf("Expected return:   %.1f%% (%s)\n", rec.ExpectedReturnPct, rec.ReturnRangeLabel)
	p.Printf("\nAllocation:\n")
	if len(rec.Dollarized) > 0 {
		for _, a := range rec.Dollarized {
			p.Printf("  %-5s %5.1f%%  $%s  %s\n", a.Symbol, a.Percent, a.AmountUSD, a.Name)
		}
	} else {
		for _, a := range rec.Allocation {
			p.Printf("  %-5s %5.1f%%  %s\n", a.Symbol, a.Percent, a.Name)
		}
	}

	if proj := rec.Projection; proj != nil {
		p.Printf("\nCosts and outcomes:\n")
		p.Printf("  Avg expense ratio: %.2f%%\n", proj.AvgExpenseRatioPct)
		p.Printf("  Annual fees:       $%s\n", proj.AnnualFeeUSD)
		p.Printf("  Volatility:        %.1f%% (%s)\n", proj.VolatilityPct, proj.VolatilityLabel)
		for _, sc := range proj.Scenarios {
			p.Printf("  %-7s market:    %+.1f%% annually\n", sc.Name, sc.ReturnPct)
		}
	}

	p.Printf("\n%s\n", rec.Rationale)
}

func printAlternatives(archetype model.Archetype) {
	p := message.NewPrinter(language.English)

	for _, kind := range []engine.AlternativeKind{engine.AlternativeConservative, engine.AlternativeAggressive} {
		allocation, err := engine.Alternative(archetype, kind)
		if err != nil {
			continue
		}
		p.Printf("\nAlternative (%s):\n", kind)
		for _, a := range allocation {
			p.Printf("  %-5s %5.1f%%  %s\n", a.Symbol, a.Percent, a.Name)
		}
	}
}

func init() {
	recommendCmd.Flags().IntVar(&recommendExperience, "experience", 0, "investing experience answer (1-4)")
	recommendCmd.Flags().IntVar(&recommendTimeline, "timeline", 0, "investment timeline answer (1-4)")
	recommendCmd.Flags().IntVar(&recommendVolatility, "volatility", 0, "volatility comfort answer (1-4)")
	recommendCmd.Flags().Float64Var(&recommendAmount, "amount", 0, "investment amount in USD (0 skips dollar breakdown)")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "print the raw recommendation as JSON")
	recommendCmd.Flags().BoolVar(&recommendAlternatives, "alternatives", false, "also print the shifted alternative allocations")
	rootCmd.AddCommand(recommendCmd)
}
