// Package suggest implements the Pro enrichment layer: AI-generated
// improvement suggestions, rebalancing moves, and portfolio risk
// scoring. The deterministic engine never depends on this package;
// enrichment is optional by design.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/portfolix/portfolix/internal/engine"
	"github.com/portfolix/portfolix/internal/model"
	"github.com/portfolix/portfolix/pkg/anthropic"
)

// Service runs Pro suggestion requests against a chat-completion
// client.
type Service struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewService creates a suggestion Service.
func NewService(client anthropic.Client, modelID string, maxTokens int64) *Service {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Service{client: client, model: modelID, maxTokens: maxTokens}
}

const systemPrompt = `You are a portfolio analysis assistant for a retail investing tool.
Respond with a single JSON object only, no prose and no markdown fences.`

// Improvements asks the model for improvement suggestions. Transport or
// parse failures are returned as errors with an empty result; the
// caller surfaces a notification and leaves state unchanged.
func (s *Service) Improvements(ctx context.Context, req model.SuggestionRequest) ([]model.Suggestion, error) {
	prompt := fmt.Sprintf(
		`Suggest up to 3 improvements for this portfolio.
Risk tolerance: %s. Investment horizon: %s.
Portfolio: %s
Reply as {"suggestions":[{"title":"...","detail":"...","priority":"high|medium|low"}]}`,
		orUnknown(req.RiskTolerance), orUnknown(req.InvestmentHorizon), holdingsJSON(req.Portfolio))

	var out struct {
		Suggestions []model.Suggestion `json:"suggestions"`
	}
	if err := s.complete(ctx, "improvement", prompt, &out); err != nil {
		return nil, err
	}
	if len(out.Suggestions) == 0 {
		return nil, eris.New("suggest: model returned no suggestions")
	}
	return out.Suggestions, nil
}

// Rebalancing asks the model for rebalancing moves.
func (s *Service) Rebalancing(ctx context.Context, req model.SuggestionRequest) ([]model.RebalancingMove, error) {
	prompt := fmt.Sprintf(
		`Propose rebalancing moves for this portfolio so allocations stay appropriate.
Risk tolerance: %s. Investment horizon: %s.
Portfolio: %s
Reply as {"rebalancing":[{"asset":"...","from_pct":0,"to_pct":0,"reason":"..."}]}`,
		orUnknown(req.RiskTolerance), orUnknown(req.InvestmentHorizon), holdingsJSON(req.Portfolio))

	var out struct {
		Rebalancing []model.RebalancingMove `json:"rebalancing"`
	}
	if err := s.complete(ctx, "rebalancing", prompt, &out); err != nil {
		return nil, err
	}
	return out.Rebalancing, nil
}

// RiskScore asks the model for a portfolio risk score. On ANY failure
// it transparently substitutes the local fallback heuristic: this
// branch never errors and never blocks the caller.
func (s *Service) RiskScore(ctx context.Context, req model.SuggestionRequest) *model.RiskReport {
	prompt := fmt.Sprintf(
		`Score this portfolio's risk from 1 (lowest) to 100 (highest) and list the main risk factors.
Portfolio: %s
Reply as {"risk_score":0,"risk_factors":["..."]}`,
		holdingsJSON(req.Portfolio))

	var out struct {
		Score       float64  `json:"risk_score"`
		RiskFactors []string `json:"risk_factors"`
	}
	err := s.complete(ctx, "risk_score", prompt, &out)
	if err != nil || out.Score < 1 || out.Score > 100 || len(out.RiskFactors) == 0 {
		zap.L().Warn("suggest: risk score falling back to local heuristic",
			zap.Error(err),
		)
		return engine.FallbackRiskScore(req.Portfolio)
	}

	return &model.RiskReport{
		Score:       out.Score,
		RiskFactors: out.RiskFactors,
		Source:      "model",
	}
}

// Enrich fetches the risk score and rebalancing moves concurrently.
// The two calls are independent and unordered; each branch degrades on
// its own (risk score falls back, rebalancing is omitted on failure).
func (s *Service) Enrich(ctx context.Context, req model.SuggestionRequest) *model.SuggestionData {
	data := &model.SuggestionData{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data.RiskScore = s.RiskScore(gctx, req)
		return nil
	})
	g.Go(func() error {
		moves, err := s.Rebalancing(gctx, req)
		if err != nil {
			zap.L().Warn("suggest: rebalancing enrichment failed", zap.Error(err))
			return nil
		}
		data.Rebalancing = moves
		return nil
	})
	_ = g.Wait() // branches never return errors; they degrade in place

	return data
}

// complete sends one prompt and unmarshals the JSON object from the
// model's reply into out.
func (s *Service) complete(ctx context.Context, feature, prompt string, out any) error {
	resp, err := s.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    systemPrompt,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return eris.Wrapf(err, "suggest: %s call", feature)
	}
	resp.Usage.LogCost(resp.Model, feature)

	payload := extractJSON(resp.Text)
	if payload == "" {
		return eris.Errorf("suggest: %s response contained no JSON object", feature)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return eris.Wrapf(err, "suggest: unmarshal %s response", feature)
	}
	return nil
}

// extractJSON pulls the first top-level JSON object out of a model
// reply, tolerating markdown fences and surrounding prose.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

func holdingsJSON(portfolio []model.Holding) string {
	b, err := json.Marshal(portfolio)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func orUnknown(s string) string {
	if s == "" {
		return "unspecified"
	}
	return s
}
