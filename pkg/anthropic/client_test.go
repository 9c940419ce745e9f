package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCost(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 500_000}

	// sonnet: 1M in at $3 + 0.5M out at $15/MTok = 3 + 7.5
	assert.InDelta(t, 10.5, u.EstimateCost("claude-sonnet-4-5-20250929"), 0.001)
	assert.Equal(t, 0.0, u.EstimateCost("unknown-model"))
}

func TestEstimateCost_ZeroUsage(t *testing.T) {
	var u TokenUsage
	assert.Equal(t, 0.0, u.EstimateCost("claude-haiku-4-5-20251001"))
}
