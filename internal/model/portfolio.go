package model

import "time"

// Plan is the subscription tier gating generation limits and Pro
// feature visibility.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Portfolio is a saved snapshot of a generated (and possibly
// customized) recommendation, owned by a user account. After creation
// only InvestmentAmount may change.
type Portfolio struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Name             string          `json:"name"`
	RiskScore        float64         `json:"risk_score"`
	ExperienceLevel  ExperienceLevel `json:"experience_level"`
	Timeline         string          `json:"timeline"`
	InvestmentAmount float64         `json:"investment_amount"`
	Assets           []Asset         `json:"assets"`
	Rationale        string          `json:"rationale,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Alert is a recorded rebalancing notice for a Pro user's saved
// portfolio.
type Alert struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	PortfolioID string    `json:"portfolio_id"`
	Symbol      string    `json:"symbol"`
	DriftPct    float64   `json:"drift_pct"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}
