package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolix/portfolix/internal/model"
)

func TestComputeRecommendation(t *testing.T) {
	rec, err := ComputeRecommendation(model.AnswerSet{Experience: 4, Timeline: 4, Volatility: 4}, 25_000)
	require.NoError(t, err)

	assert.Equal(t, 100.0, rec.Score)
	assert.Equal(t, model.ArchetypeAggressive, rec.Archetype)
	assert.Equal(t, "Maximum Growth", rec.StrategyName)
	assert.InDelta(t, 100, allocationSum(rec.Allocation), 0.001)
	require.NotNil(t, rec.Projection)
	assert.Len(t, rec.Projection.Scenarios, 3)
	assert.Len(t, rec.Dollarized, len(rec.Allocation))
	assert.NotEmpty(t, rec.Rationale)
}

func TestComputeRecommendation_ZeroAmount(t *testing.T) {
	rec, err := ComputeRecommendation(model.AnswerSet{Experience: 1, Timeline: 1, Volatility: 1}, 0)
	require.NoError(t, err)

	assert.Equal(t, model.ArchetypeConservative, rec.Archetype)
	assert.Empty(t, rec.Dollarized)
	require.NotNil(t, rec.Projection)
	assert.Equal(t, "0.00", rec.Projection.AnnualFeeUSD)
}

func TestComputeRecommendation_InvalidAnswers(t *testing.T) {
	_, err := ComputeRecommendation(model.AnswerSet{Experience: 2}, 1_000)
	require.Error(t, err)
}
