package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolix/portfolix/internal/model"
)

func TestStrategyTables_SumTo100(t *testing.T) {
	for _, arch := range Archetypes() {
		s, ok := StrategyFor(arch)
		require.True(t, ok, "missing strategy for %q", arch)

		var sum float64
		for _, a := range s.Allocation {
			sum += a.Percent
		}
		assert.Equal(t, 100.0, sum, "archetype %q", arch)
	}
}

func TestStrategyTables_Complete(t *testing.T) {
	for _, arch := range Archetypes() {
		s, ok := StrategyFor(arch)
		require.True(t, ok)
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Rationale)
		assert.NotEmpty(t, s.ReturnRangeLabel)
		assert.Greater(t, s.ExpectedReturnPct, 0.0)
		assert.Greater(t, s.VolatilityPct, 0.0)
		for _, a := range s.Allocation {
			assert.NotEmpty(t, a.Symbol)
			assert.NotEmpty(t, a.Name)
			assert.NotEmpty(t, a.AssetClass)
		}
	}
}

func TestStrategyTables_RiskOrdering(t *testing.T) {
	// Expected return, volatility, and equity share all rise with the
	// archetype's risk.
	archs := Archetypes()
	for i := 1; i < len(archs); i++ {
		lower, _ := StrategyFor(archs[i-1])
		higher, _ := StrategyFor(archs[i])
		assert.Greater(t, higher.ExpectedReturnPct, lower.ExpectedReturnPct)
		assert.Greater(t, higher.VolatilityPct, lower.VolatilityPct)
		assert.Greater(t, EquityShare(higher.Allocation), EquityShare(lower.Allocation))
	}
}

func TestExpenseRatioFor_UnknownSymbol(t *testing.T) {
	assert.Equal(t, DefaultExpenseRatioPct, ExpenseRatioFor("ZZZZ"))
	assert.Equal(t, 0.03, ExpenseRatioFor("VTI"))
}

func TestValidateStrategy(t *testing.T) {
	base := Strategy{
		Archetype: model.ArchetypeModerate,
		Name:      "test",
		Allocation: []model.Asset{
			{Symbol: "VTI", Name: "a", Percent: 60, AssetClass: "Equity"},
			{Symbol: "BND", Name: "b", Percent: 40, AssetClass: "Bond"},
		},
	}
	require.NoError(t, validateStrategy(base))

	drifted := base
	drifted.Allocation = append([]model.Asset(nil), base.Allocation...)
	drifted.Allocation[0].Percent = 61
	assert.Error(t, validateStrategy(drifted))

	empty := base
	empty.Allocation = nil
	assert.Error(t, validateStrategy(empty))

	negative := base
	negative.Allocation = []model.Asset{
		{Symbol: "VTI", Percent: 110, AssetClass: "Equity"},
		{Symbol: "BND", Percent: -10, AssetClass: "Bond"},
	}
	assert.Error(t, validateStrategy(negative))
}
