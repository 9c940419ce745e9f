package engine

import (
	"fmt"
	"math"

	"github.com/portfolix/portfolix/internal/model"
)

// Strategy is the fixed allocation set for one archetype, together
// with the presentation figures the projector and UI copy need.
type Strategy struct {
	Archetype         model.Archetype
	Name              string
	Allocation        []model.Asset
	ExpectedReturnPct float64
	VolatilityPct     float64
	ReturnRangeLabel  string
	VolatilityLabel   string
	Rationale         string
}

// strategies holds the four canonical allocation tables. These are
// constants, not computed allocations: the free tier performs no
// portfolio optimization.
var strategies = map[model.Archetype]Strategy{
	model.ArchetypeConservative: {
		Archetype: model.ArchetypeConservative,
		Name:      "Capital Preservation",
		Allocation: []model.Asset{
			{Symbol: "BND", Name: "Vanguard Total Bond Market ETF", Percent: 40, AssetClass: "Bond", Rationale: "Core investment-grade bond exposure anchors the portfolio"},
			{Symbol: "VTEB", Name: "Vanguard Tax-Exempt Bond ETF", Percent: 20, AssetClass: "Bond", Rationale: "Municipal bonds add tax-efficient income"},
			{Symbol: "VTI", Name: "Vanguard Total Stock Market ETF", Percent: 25, AssetClass: "Equity", Rationale: "Modest broad-market equity for long-run growth"},
			{Symbol: "GLD", Name: "SPDR Gold Shares", Percent: 5, AssetClass: "Commodity", Rationale: "Inflation hedge"},
			{Symbol: "BIL", Name: "SPDR 1-3 Month T-Bill ETF", Percent: 10, AssetClass: "Cash", Rationale: "Liquidity buffer"},
		},
		ExpectedReturnPct: 4.5,
		VolatilityPct:     5.0,
		ReturnRangeLabel:  "3-6% annually",
		VolatilityLabel:   "low",
		Rationale:         "Prioritizes stability and income over growth; suited to short horizons and low volatility comfort.",
	},
	model.ArchetypeModerate: {
		Archetype: model.ArchetypeModerate,
		Name:      "Balanced Growth",
		Allocation: []model.Asset{
			{Symbol: "VTI", Name: "Vanguard Total Stock Market ETF", Percent: 35, AssetClass: "Equity", Rationale: "Broad US equity core"},
			{Symbol: "VXUS", Name: "Vanguard Total International Stock ETF", Percent: 15, AssetClass: "Equity", Rationale: "International diversification"},
			{Symbol: "BND", Name: "Vanguard Total Bond Market ETF", Percent: 35, AssetClass: "Bond", Rationale: "Bond ballast dampens equity drawdowns"},
			{Symbol: "VNQ", Name: "Vanguard Real Estate ETF", Percent: 10, AssetClass: "Real Estate", Rationale: "Real assets with income"},
			{Symbol: "GLD", Name: "SPDR Gold Shares", Percent: 5, AssetClass: "Commodity", Rationale: "Inflation hedge"},
		},
		ExpectedReturnPct: 6.5,
		VolatilityPct:     9.0,
		ReturnRangeLabel:  "5-8% annually",
		VolatilityLabel:   "medium",
		Rationale:         "A classic balanced mix trading some upside for smoother returns.",
	},
	model.ArchetypeGrowth: {
		Archetype: model.ArchetypeGrowth,
		Name:      "Long-Term Growth",
		Allocation: []model.Asset{
			{Symbol: "VTI", Name: "Vanguard Total Stock Market ETF", Percent: 45, AssetClass: "Equity", Rationale: "US equity drives long-term growth"},
			{Symbol: "VXUS", Name: "Vanguard Total International Stock ETF", Percent: 20, AssetClass: "Equity", Rationale: "International diversification"},
			{Symbol: "VB", Name: "Vanguard Small-Cap ETF", Percent: 10, AssetClass: "Equity", Rationale: "Small-cap tilt for higher expected returns"},
			{Symbol: "BND", Name: "Vanguard Total Bond Market ETF", Percent: 20, AssetClass: "Bond", Rationale: "Reduced bond ballast"},
			{Symbol: "VNQ", Name: "Vanguard Real Estate ETF", Percent: 5, AssetClass: "Real Estate", Rationale: "Real asset diversifier"},
		},
		ExpectedReturnPct: 8.0,
		VolatilityPct:     13.0,
		ReturnRangeLabel:  "7-10% annually",
		VolatilityLabel:   "elevated",
		Rationale:         "Equity-heavy for investors with long horizons who can ride out downturns.",
	},
	model.ArchetypeAggressive: {
		Archetype: model.ArchetypeAggressive,
		Name:      "Maximum Growth",
		Allocation: []model.Asset{
			{Symbol: "VTI", Name: "Vanguard Total Stock Market ETF", Percent: 45, AssetClass: "Equity", Rationale: "US equity core at full weight"},
			{Symbol: "QQQ", Name: "Invesco QQQ Trust", Percent: 15, AssetClass: "Equity", Rationale: "Concentrated large-cap growth exposure"},
			{Symbol: "VXUS", Name: "Vanguard Total International Stock ETF", Percent: 20, AssetClass: "Equity", Rationale: "International diversification"},
			{Symbol: "VWO", Name: "Vanguard Emerging Markets ETF", Percent: 10, AssetClass: "Equity", Rationale: "Emerging markets for maximum growth potential"},
			{Symbol: "BND", Name: "Vanguard Total Bond Market ETF", Percent: 10, AssetClass: "Bond", Rationale: "Minimal bond buffer"},
		},
		ExpectedReturnPct: 9.5,
		VolatilityPct:     17.0,
		ReturnRangeLabel:  "8-12% annually",
		VolatilityLabel:   "high",
		Rationale:         "Nearly all equity, including growth and emerging-market tilts; expects large swings.",
	},
}

// expenseRatios holds known per-symbol annual expense ratios in
// percent. Symbols not listed fall back to DefaultExpenseRatioPct.
var expenseRatios = map[string]float64{
	"VTI":  0.03,
	"VXUS": 0.08,
	"BND":  0.03,
	"VTEB": 0.05,
	"VNQ":  0.12,
	"VB":   0.05,
	"VWO":  0.08,
	"QQQ":  0.20,
	"GLD":  0.40,
	"BIL":  0.14,
}

// DefaultExpenseRatioPct is assumed for symbols without a known ratio,
// and returned outright for an empty allocation.
const DefaultExpenseRatioPct = 0.10

func init() {
	for arch, s := range strategies {
		if err := validateStrategy(s); err != nil {
			panic(fmt.Sprintf("engine: strategy table %q: %v", arch, err))
		}
	}
}

// validateStrategy enforces the construction-time invariants on a
// strategy table: non-empty allocation summing to exactly 100.
func validateStrategy(s Strategy) error {
	if len(s.Allocation) == 0 {
		return fmt.Errorf("empty allocation")
	}
	var sum float64
	for _, a := range s.Allocation {
		if a.Percent <= 0 {
			return fmt.Errorf("asset %s has non-positive percent %.2f", a.Symbol, a.Percent)
		}
		sum += a.Percent
	}
	if math.Abs(sum-100) > 1e-9 {
		return fmt.Errorf("allocation sums to %.4f, want 100", sum)
	}
	return nil
}

// StrategyFor returns the fixed strategy for an archetype.
func StrategyFor(archetype model.Archetype) (Strategy, bool) {
	s, ok := strategies[archetype]
	return s, ok
}

// Archetypes lists all archetypes in ascending risk order.
func Archetypes() []model.Archetype {
	return []model.Archetype{
		model.ArchetypeConservative,
		model.ArchetypeModerate,
		model.ArchetypeGrowth,
		model.ArchetypeAggressive,
	}
}

// ExpenseRatioFor returns the known expense ratio for a symbol, or the
// default for unknown symbols.
func ExpenseRatioFor(symbol string) float64 {
	if r, ok := expenseRatios[symbol]; ok {
		return r
	}
	return DefaultExpenseRatioPct
}
