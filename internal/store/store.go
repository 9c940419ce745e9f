// Package store persists saved portfolios, subscription plans,
// generation metering, and rebalancing alerts.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/portfolix/portfolix/internal/model"
)

// ErrNotFound marks owner-scoped writes that matched no row. Callers
// distinguish it from I/O failures with errors.Is.
var ErrNotFound = eris.New("not found")

// MonthKey formats a time as the generation-metering bucket key.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// Store defines the persistence interface behind the API.
type Store interface {
	// Portfolios. A portfolio is immutable after save except for its
	// investment amount; all per-portfolio operations are owner-scoped.
	SavePortfolio(ctx context.Context, p *model.Portfolio) (*model.Portfolio, error)
	GetPortfolio(ctx context.Context, userID, id string) (*model.Portfolio, error)
	ListPortfolios(ctx context.Context, userID string) ([]model.Portfolio, error)
	DeletePortfolio(ctx context.Context, userID, id string) error
	UpdateInvestmentAmount(ctx context.Context, userID, id string, amount float64) error
	CountPortfolios(ctx context.Context, userID string) (int, error)

	// Plans. Unknown users are on the free plan.
	GetPlan(ctx context.Context, userID string) (model.Plan, error)
	SetPlan(ctx context.Context, userID string, plan model.Plan) error
	ListProUsers(ctx context.Context) ([]string, error)

	// Generation metering, bucketed by MonthKey.
	IncrementGenerations(ctx context.Context, userID, month string) error
	GenerationCount(ctx context.Context, userID, month string) (int, error)

	// Rebalancing alerts.
	SaveAlert(ctx context.Context, a *model.Alert) error
	ListAlerts(ctx context.Context, userID string) ([]model.Alert, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
