package engine

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/portfolix/portfolix/internal/model"
)

// Alternative variants shift the equity/non-equity split by a fixed
// step from the current archetype's baseline, clamped to a sane band.
const (
	alternativeShiftPct = 20.0
	minEquityPct        = 20.0
	maxEquityPct        = 90.0
)

// AlternativeKind selects the direction of the shift.
type AlternativeKind string

const (
	AlternativeConservative AlternativeKind = "more_conservative"
	AlternativeAggressive   AlternativeKind = "more_aggressive"
)

// Alternative derives a variant allocation from a strategy's baseline
// by shifting the equity share by ±20 percentage points, clamped to
// [20,90] for equity. Equity assets scale together, non-equity assets
// scale together, and the result is re-normalized to sum to exactly
// 100.
func Alternative(archetype model.Archetype, kind AlternativeKind) ([]model.Asset, error) {
	s, ok := StrategyFor(archetype)
	if !ok {
		return nil, eris.Errorf("engine: unknown archetype %q", archetype)
	}

	currentEquity := EquityShare(s.Allocation)

	var target float64
	switch kind {
	case AlternativeAggressive:
		target = currentEquity + alternativeShiftPct
	case AlternativeConservative:
		target = currentEquity - alternativeShiftPct
	default:
		return nil, eris.Errorf("engine: unknown alternative kind %q", kind)
	}
	target = math.Min(maxEquityPct, math.Max(minEquityPct, target))

	return shiftEquity(s.Allocation, currentEquity, target), nil
}

// EquityShare returns the total percent allocated to equity assets.
func EquityShare(allocation []model.Asset) float64 {
	var sum float64
	for _, a := range allocation {
		if a.AssetClass == "Equity" {
			sum += a.Percent
		}
	}
	return sum
}

// shiftEquity rescales allocation so equity totals targetEquity,
// keeping intra-class proportions. Degenerate inputs (no equity or all
// equity) are returned unchanged since there is nothing to trade off.
func shiftEquity(allocation []model.Asset, currentEquity, targetEquity float64) []model.Asset {
	other := 100 - currentEquity
	if currentEquity == 0 || other == 0 || currentEquity == targetEquity {
		return append([]model.Asset(nil), allocation...)
	}

	out := make([]model.Asset, len(allocation))
	for i, a := range allocation {
		out[i] = a
		if a.AssetClass == "Equity" {
			out[i].Percent = a.Percent * targetEquity / currentEquity
		} else {
			out[i].Percent = a.Percent * (100 - targetEquity) / other
		}
	}
	return normalize(out)
}

// normalize rounds percents to one decimal and folds any rounding
// residue into the largest position so the total is exactly 100.
func normalize(allocation []model.Asset) []model.Asset {
	var sum float64
	largest := 0
	for i := range allocation {
		allocation[i].Percent = math.Round(allocation[i].Percent*10) / 10
		sum += allocation[i].Percent
		if allocation[i].Percent > allocation[largest].Percent {
			largest = i
		}
	}
	residue := math.Round((100-sum)*10) / 10
	if residue != 0 {
		allocation[largest].Percent = math.Round((allocation[largest].Percent+residue)*10) / 10
	}
	return allocation
}
