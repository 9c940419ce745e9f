// Package model defines the domain types shared across the engine,
// store, and API layers.
package model

// Archetype is one of the four named portfolio strategies.
type Archetype string

const (
	ArchetypeConservative Archetype = "conservative"
	ArchetypeModerate     Archetype = "moderate"
	ArchetypeGrowth       Archetype = "growth"
	ArchetypeAggressive   Archetype = "aggressive"
)

// ExperienceLevel labels the investor's self-reported experience.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// AnswerSet holds the questionnaire answers, one per required question,
// each valued 1-4. A partial set is transient UI state and is rejected
// by the scorer.
type AnswerSet struct {
	Experience int `json:"experience"`
	Timeline   int `json:"timeline"`
	Volatility int `json:"volatility"`
}

// RiskProfile is the output of the risk scorer.
type RiskProfile struct {
	Score           float64         `json:"risk_score"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	Timeline        string          `json:"timeline"`
}

// Asset is a single entry in an allocation: a symbol and its share of
// the portfolio in percent.
type Asset struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Percent    float64 `json:"allocation_percent"`
	AssetClass string  `json:"asset_class"`
	Rationale  string  `json:"rationale,omitempty"`
}

// Scenario holds the projected annual return for one market scenario.
type Scenario struct {
	Name      string  `json:"name"`
	ReturnPct float64 `json:"return_pct"`
}

// Projection is the cost/outcome output for a recommendation.
type Projection struct {
	AvgExpenseRatioPct float64    `json:"avg_expense_ratio_pct"`
	AnnualFeeUSD       string     `json:"annual_fee_usd"`
	Scenarios          []Scenario `json:"scenarios"`
	VolatilityPct      float64    `json:"volatility_pct"`
	VolatilityLabel    string     `json:"volatility_label"`
}

// AssetDollar pairs an allocation entry with its dollar amount for a
// given investment size.
type AssetDollar struct {
	Asset
	AmountUSD string `json:"amount_usd"`
}

// Recommendation is the full output of the allocation engine for one
// questionnaire pass.
type Recommendation struct {
	RiskProfile
	Archetype         Archetype     `json:"archetype"`
	StrategyName      string        `json:"strategy_name"`
	Allocation        []Asset       `json:"allocation"`
	ExpectedReturnPct float64       `json:"expected_return_pct"`
	ReturnRangeLabel  string        `json:"return_range"`
	InvestmentAmount  float64       `json:"investment_amount"`
	Dollarized        []AssetDollar `json:"dollarized,omitempty"`
	Projection        *Projection   `json:"projection,omitempty"`
	Rationale         string        `json:"rationale"`
}
