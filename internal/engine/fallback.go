package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/portfolix/portfolix/internal/model"
)

// Keyword vocabularies for the offline risk heuristic. Matching is
// case-insensitive substring search over the holding's name.
var (
	highRiskKeywords = []string{
		"crypto", "bitcoin", "ethereum", "leveraged", "3x", "2x",
		"option", "penny", "emerging", "small cap", "small-cap",
		"growth", "tech", "biotech", "meme",
	}
	lowRiskKeywords = []string{
		"bond", "treasury", "government", "municipal", "money market",
		"cd", "cash", "index", "dividend", "utility", "value",
		"t-bill", "tips",
	}
)

const (
	concentrationThresholdPct = 40.0
	minDiversifiedHoldings    = 4
)

// FallbackRiskScore computes a 1-100 portfolio risk score from a raw
// holdings list by keyword-matching asset names, weighted by
// allocation. Used when the AI risk-score service is unavailable. It
// is best-effort by contract: it always returns a finite score and at
// least one risk factor, and never fails.
func FallbackRiskScore(portfolio []model.Holding) *model.RiskReport {
	report := &model.RiskReport{Source: "fallback"}

	var score, totalWeight float64
	for _, h := range portfolio {
		w := h.Percentage
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			w = 0
		}
		totalWeight += w

		name := strings.ToLower(h.Asset)
		switch {
		case matchesAny(name, highRiskKeywords):
			score += w * 0.9
		case matchesAny(name, lowRiskKeywords):
			score += w * 0.2
		default:
			score += w * 0.5
		}
	}

	if totalWeight > 0 {
		score = score / totalWeight * 100
	} else {
		score = 50
	}
	report.Score = math.Min(100, math.Max(1, math.Round(score)))

	// Concentration flag: any single holding above the threshold.
	for _, h := range portfolio {
		if h.Percentage > concentrationThresholdPct {
			report.RiskFactors = append(report.RiskFactors,
				fmt.Sprintf("High concentration: %.0f%% in %s", h.Percentage, h.Asset))
		}
	}
	if len(portfolio) > 0 && len(portfolio) < minDiversifiedHoldings {
		report.RiskFactors = append(report.RiskFactors,
			fmt.Sprintf("Low diversification: only %d holdings", len(portfolio)))
	}
	if len(report.RiskFactors) == 0 {
		report.RiskFactors = []string{"Portfolio appears reasonably balanced"}
	}

	return report
}

func matchesAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
