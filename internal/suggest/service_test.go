package suggest

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolix/portfolix/internal/model"
	"github.com/portfolix/portfolix/pkg/anthropic"
)

// fakeClient returns canned responses (or errors) per call.
type fakeClient struct {
	responses []string
	err       error
	requests  []anthropic.MessageRequest
}

func (f *fakeClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	text := ""
	if len(f.responses) > 0 {
		text = f.responses[0]
		f.responses = f.responses[1:]
	}
	return &anthropic.MessageResponse{Model: req.Model, Text: text}, nil
}

func testRequest() model.SuggestionRequest {
	return model.SuggestionRequest{
		Type: model.SuggestionImprovement,
		Portfolio: []model.Holding{
			{Asset: "VTI", Percentage: 60},
			{Asset: "BND", Percentage: 40},
		},
		RiskTolerance:     "moderate",
		InvestmentHorizon: "10 years",
	}
}

func TestImprovements(t *testing.T) {
	fake := &fakeClient{responses: []string{
		`{"suggestions":[{"title":"Add international exposure","detail":"Consider VXUS.","priority":"medium"}]}`,
	}}
	svc := NewService(fake, "test-model", 512)

	got, err := svc.Improvements(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Add international exposure", got[0].Title)
	assert.Equal(t, "medium", got[0].Priority)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, "test-model", fake.requests[0].Model)
	assert.Contains(t, fake.requests[0].Messages[0].Content, "VTI")
	assert.Contains(t, fake.requests[0].Messages[0].Content, "moderate")
}

func TestImprovementsTransportError(t *testing.T) {
	fake := &fakeClient{err: eris.New("boom")}
	svc := NewService(fake, "test-model", 512)

	got, err := svc.Improvements(context.Background(), testRequest())
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestImprovementsEmptyList(t *testing.T) {
	fake := &fakeClient{responses: []string{`{"suggestions":[]}`}}
	svc := NewService(fake, "test-model", 512)

	_, err := svc.Improvements(context.Background(), testRequest())
	assert.Error(t, err)
}

func TestRebalancing(t *testing.T) {
	fake := &fakeClient{responses: []string{
		"```json\n" + `{"rebalancing":[{"asset":"VTI","from_pct":60,"to_pct":55,"reason":"trim equity"}]}` + "\n```",
	}}
	svc := NewService(fake, "test-model", 512)

	got, err := svc.Rebalancing(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "VTI", got[0].Asset)
	assert.InDelta(t, 55.0, got[0].ToPct, 1e-9)
}

func TestRiskScoreModelPath(t *testing.T) {
	fake := &fakeClient{responses: []string{
		`Here is the assessment: {"risk_score":62,"risk_factors":["equity concentration"]}`,
	}}
	svc := NewService(fake, "test-model", 512)

	got := svc.RiskScore(context.Background(), testRequest())
	require.NotNil(t, got)
	assert.Equal(t, "model", got.Source)
	assert.InDelta(t, 62.0, got.Score, 1e-9)
	assert.Equal(t, []string{"equity concentration"}, got.RiskFactors)
}

func TestRiskScoreFallsBack(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeClient
	}{
		{"transport error", &fakeClient{err: eris.New("timeout")}},
		{"no json", &fakeClient{responses: []string{"I cannot help with that."}}},
		{"score out of range", &fakeClient{responses: []string{`{"risk_score":400,"risk_factors":["x"]}`}}},
		{"missing factors", &fakeClient{responses: []string{`{"risk_score":50,"risk_factors":[]}`}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.fake, "test-model", 512)

			got := svc.RiskScore(context.Background(), testRequest())
			require.NotNil(t, got)
			assert.Equal(t, "fallback", got.Source)
			assert.GreaterOrEqual(t, got.Score, 1.0)
			assert.LessOrEqual(t, got.Score, 100.0)
			assert.NotEmpty(t, got.RiskFactors)
		})
	}
}

func TestEnrichDegradesPerBranch(t *testing.T) {
	// Both branches hit the same erroring client: risk score must fall
	// back, rebalancing must be omitted, and Enrich must still return.
	fake := &fakeClient{err: eris.New("unreachable")}
	svc := NewService(fake, "test-model", 512)

	data := svc.Enrich(context.Background(), testRequest())
	require.NotNil(t, data)
	require.NotNil(t, data.RiskScore)
	assert.Equal(t, "fallback", data.RiskScore.Source)
	assert.Empty(t, data.Rebalancing)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose wrapped", `Sure: {"a":{"b":2}} hope that helps`, `{"a":{"b":2}}`},
		{"no object", "no json here", ""},
		{"unbalanced", `{"a":1`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}
