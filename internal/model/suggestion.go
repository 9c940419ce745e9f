package model

// SuggestionType selects which Pro enrichment branch to invoke.
type SuggestionType string

const (
	SuggestionImprovement SuggestionType = "improvement"
	SuggestionRebalancing SuggestionType = "rebalancing"
	SuggestionRiskScore   SuggestionType = "risk_score"
)

// Holding is a raw (asset name, percentage) pair as submitted to the
// Pro suggestion endpoint. Unlike Asset it carries no symbol or class;
// it is whatever the user typed or imported.
type Holding struct {
	Asset      string  `json:"asset"`
	Percentage float64 `json:"percentage"`
}

// SuggestionRequest is the wire contract of the Pro suggestion call.
type SuggestionRequest struct {
	Type              SuggestionType `json:"type"`
	Portfolio         []Holding      `json:"portfolio"`
	RiskTolerance     string         `json:"risk_tolerance,omitempty"`
	InvestmentHorizon string         `json:"investment_horizon,omitempty"`
}

// Suggestion is one improvement suggestion from the model.
type Suggestion struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Priority string `json:"priority,omitempty"`
}

// RebalancingMove is one recommended allocation change.
type RebalancingMove struct {
	Asset   string  `json:"asset"`
	FromPct float64 `json:"from_pct"`
	ToPct   float64 `json:"to_pct"`
	Reason  string  `json:"reason,omitempty"`
}

// RiskReport is the Pro risk-score result. Source records whether the
// number came from the model or from the local fallback heuristic.
type RiskReport struct {
	Score       float64  `json:"risk_score"`
	RiskFactors []string `json:"risk_factors"`
	Source      string   `json:"source"` // "model" or "fallback"
}

// SuggestionResponse is the envelope returned by the Pro endpoint.
type SuggestionResponse struct {
	Success bool            `json:"success"`
	Data    *SuggestionData `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// SuggestionData carries whichever branch result was requested.
type SuggestionData struct {
	Suggestions []Suggestion      `json:"suggestions,omitempty"`
	Rebalancing []RebalancingMove `json:"rebalancing,omitempty"`
	RiskScore   *RiskReport       `json:"risk_score,omitempty"`
}
