package engine

import (
	"go.uber.org/zap"

	"github.com/portfolix/portfolix/internal/model"
)

// ComputeRecommendation runs the full pipeline: score the answers,
// select an archetype, look up its allocation, and project costs and
// scenario returns. The investment amount may be zero, in which case
// dollarized figures are omitted.
func ComputeRecommendation(answers model.AnswerSet, investmentAmount float64) (*model.Recommendation, error) {
	profile, err := ScoreAnswers(answers)
	if err != nil {
		return nil, err
	}

	archetype := SelectArchetype(profile.Score)
	strategy, _ := StrategyFor(archetype)

	rec := &model.Recommendation{
		RiskProfile:       profile,
		Archetype:         archetype,
		StrategyName:      strategy.Name,
		Allocation:        strategy.Allocation,
		ExpectedReturnPct: strategy.ExpectedReturnPct,
		ReturnRangeLabel:  strategy.ReturnRangeLabel,
		InvestmentAmount:  investmentAmount,
		Rationale:         strategy.Rationale,
		Projection: Project(strategy.Allocation, investmentAmount,
			strategy.ExpectedReturnPct, strategy.VolatilityPct, strategy.VolatilityLabel),
	}
	if investmentAmount > 0 {
		rec.Dollarized = Dollarize(strategy.Allocation, investmentAmount)
	}

	zap.L().Debug("engine: recommendation computed",
		zap.Float64("risk_score", profile.Score),
		zap.String("archetype", string(archetype)),
		zap.Float64("investment_amount", investmentAmount),
	)

	return rec, nil
}
