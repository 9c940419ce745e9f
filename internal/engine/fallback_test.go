package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolix/portfolix/internal/model"
)

func TestFallbackRiskScore_AlwaysTerminates(t *testing.T) {
	tests := []struct {
		name      string
		portfolio []model.Holding
	}{
		{"empty portfolio", nil},
		{"single holding", []model.Holding{{Asset: "Vanguard Total Bond Market", Percentage: 100}}},
		{"nonsense weights", []model.Holding{
			{Asset: "Something", Percentage: math.NaN()},
			{Asset: "Else", Percentage: math.Inf(1)},
		}},
		{"crypto heavy", []model.Holding{
			{Asset: "Bitcoin ETF", Percentage: 60},
			{Asset: "Leveraged 3x Tech Fund", Percentage: 40},
		}},
		{"balanced", []model.Holding{
			{Asset: "Total Stock Market Index", Percentage: 30},
			{Asset: "Total Bond Market Index", Percentage: 30},
			{Asset: "International Index", Percentage: 20},
			{Asset: "REIT Fund", Percentage: 20},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := FallbackRiskScore(tt.portfolio)
			require.NotNil(t, report)
			assert.False(t, math.IsNaN(report.Score))
			assert.GreaterOrEqual(t, report.Score, 1.0)
			assert.LessOrEqual(t, report.Score, 100.0)
			assert.NotEmpty(t, report.RiskFactors)
			assert.Equal(t, "fallback", report.Source)
		})
	}
}

func TestFallbackRiskScore_KeywordWeighting(t *testing.T) {
	risky := FallbackRiskScore([]model.Holding{
		{Asset: "Bitcoin Trust", Percentage: 25},
		{Asset: "Penny Stock Fund", Percentage: 25},
		{Asset: "Leveraged Growth", Percentage: 25},
		{Asset: "Emerging Markets", Percentage: 25},
	})
	safe := FallbackRiskScore([]model.Holding{
		{Asset: "Treasury Bonds", Percentage: 25},
		{Asset: "Municipal Bond Fund", Percentage: 25},
		{Asset: "Money Market", Percentage: 25},
		{Asset: "Dividend Index", Percentage: 25},
	})

	assert.Greater(t, risky.Score, safe.Score)
}

func TestFallbackRiskScore_ConcentrationFlag(t *testing.T) {
	report := FallbackRiskScore([]model.Holding{
		{Asset: "Index Fund A", Percentage: 55},
		{Asset: "Index Fund B", Percentage: 15},
		{Asset: "Index Fund C", Percentage: 15},
		{Asset: "Index Fund D", Percentage: 15},
	})

	require.NotEmpty(t, report.RiskFactors)
	assert.Contains(t, report.RiskFactors[0], "concentration")
}

func TestFallbackRiskScore_DiversificationFlag(t *testing.T) {
	report := FallbackRiskScore([]model.Holding{
		{Asset: "Fund A", Percentage: 40},
		{Asset: "Fund B", Percentage: 35},
		{Asset: "Fund C", Percentage: 25},
	})

	found := false
	for _, f := range report.RiskFactors {
		if assert.ObjectsAreEqual("Low diversification: only 3 holdings", f) {
			found = true
		}
	}
	assert.True(t, found, "expected a diversification flag, got %v", report.RiskFactors)
}

func TestFallbackRiskScore_BalancedDefault(t *testing.T) {
	report := FallbackRiskScore([]model.Holding{
		{Asset: "Fund A", Percentage: 25},
		{Asset: "Fund B", Percentage: 25},
		{Asset: "Fund C", Percentage: 25},
		{Asset: "Fund D", Percentage: 25},
	})

	require.Len(t, report.RiskFactors, 1)
	assert.Contains(t, report.RiskFactors[0], "balanced")
}
