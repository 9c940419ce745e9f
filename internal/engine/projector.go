package engine

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/portfolix/portfolix/internal/model"
)

// Scenario return multipliers over the strategy's expected return and
// volatility. Presentation heuristics, not calibrated models.
const (
	bullVolatilityMul = 1.5
	bearVolatilityMul = 1.2
)

// AverageExpenseRatio computes the allocation-weighted expense ratio in
// percent. Unknown symbols use the default ratio; an empty or
// zero-weight allocation returns the default outright instead of
// dividing by zero.
func AverageExpenseRatio(allocation []model.Asset) float64 {
	var weighted, totalWeight float64
	for _, a := range allocation {
		w := a.Percent / 100
		weighted += w * ExpenseRatioFor(a.Symbol)
		totalWeight += w
	}
	if totalWeight == 0 {
		return DefaultExpenseRatioPct
	}
	return weighted / totalWeight
}

// Project computes the cost/outcome projection for an allocation at a
// given investment amount, using the strategy's expected return and
// volatility assumptions.
func Project(allocation []model.Asset, investmentAmount, expectedReturnPct, volatilityPct float64, volatilityLabel string) *model.Projection {
	avgRatio := AverageExpenseRatio(allocation)

	fee := decimal.NewFromFloat(investmentAmount).
		Mul(decimal.NewFromFloat(avgRatio)).
		Div(decimal.NewFromInt(100)).
		Round(2)

	return &model.Projection{
		AvgExpenseRatioPct: math.Round(avgRatio*1000) / 1000,
		AnnualFeeUSD:       fee.StringFixed(2),
		Scenarios: []model.Scenario{
			{Name: "bull", ReturnPct: round2(expectedReturnPct + volatilityPct*bullVolatilityMul)},
			{Name: "normal", ReturnPct: round2(expectedReturnPct)},
			{Name: "bear", ReturnPct: round2(-(volatilityPct * bearVolatilityMul))},
		},
		VolatilityPct:   volatilityPct,
		VolatilityLabel: volatilityLabel,
	}
}

// Dollarize converts an allocation to per-asset dollar amounts for a
// given investment size.
func Dollarize(allocation []model.Asset, investmentAmount float64) []model.AssetDollar {
	amount := decimal.NewFromFloat(investmentAmount)
	out := make([]model.AssetDollar, len(allocation))
	for i, a := range allocation {
		usd := amount.
			Mul(decimal.NewFromFloat(a.Percent)).
			Div(decimal.NewFromInt(100)).
			Round(2)
		out[i] = model.AssetDollar{Asset: a, AmountUSD: usd.StringFixed(2)}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
