// Package quota centralizes subscription-plan gating. Components ask
// the gate instead of re-querying plan and counts ad hoc; the cached
// plan is invalidated explicitly when a webhook mutates it.
package quota

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/portfolix/portfolix/internal/config"
	"github.com/portfolix/portfolix/internal/model"
	"github.com/portfolix/portfolix/internal/store"
)

// Decision is the result of a gate check. Quota exhaustion is not an
// error: Allowed is false and Reason says why, so callers can surface
// an upgrade prompt instead of attempting the action.
type Decision struct {
	Allowed bool       `json:"allowed"`
	Reason  string     `json:"reason,omitempty"`
	Plan    model.Plan `json:"plan"`
}

// Gate answers plan and quota questions for the API layer.
type Gate struct {
	store store.Store
	cfg   config.QuotaConfig

	mu    sync.RWMutex
	plans map[string]model.Plan
}

// NewGate creates a Gate over the given store.
func NewGate(st store.Store, cfg config.QuotaConfig) *Gate {
	return &Gate{
		store: st,
		cfg:   cfg,
		plans: make(map[string]model.Plan),
	}
}

// Plan returns the user's plan, serving repeated lookups from the
// session cache.
func (g *Gate) Plan(ctx context.Context, userID string) (model.Plan, error) {
	g.mu.RLock()
	if plan, ok := g.plans[userID]; ok {
		g.mu.RUnlock()
		return plan, nil
	}
	g.mu.RUnlock()

	plan, err := g.store.GetPlan(ctx, userID)
	if err != nil {
		return "", eris.Wrap(err, "quota: get plan")
	}

	g.mu.Lock()
	g.plans[userID] = plan
	g.mu.Unlock()
	return plan, nil
}

// SetPlan persists a plan change and invalidates the cache entry.
func (g *Gate) SetPlan(ctx context.Context, userID string, plan model.Plan) error {
	if err := g.store.SetPlan(ctx, userID, plan); err != nil {
		return eris.Wrap(err, "quota: set plan")
	}

	g.mu.Lock()
	delete(g.plans, userID)
	g.mu.Unlock()

	zap.L().Info("quota: plan updated",
		zap.String("user_id", userID),
		zap.String("plan", string(plan)),
	)
	return nil
}

// Invalidate drops the cached plan for a user.
func (g *Gate) Invalidate(userID string) {
	g.mu.Lock()
	delete(g.plans, userID)
	g.mu.Unlock()
}

// CanCreatePortfolio reports whether the user may save another
// portfolio. Free accounts are capped; Pro accounts are unlimited.
func (g *Gate) CanCreatePortfolio(ctx context.Context, userID string) (Decision, error) {
	plan, err := g.Plan(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	if plan == model.PlanPro {
		return Decision{Allowed: true, Plan: plan}, nil
	}

	n, err := g.store.CountPortfolios(ctx, userID)
	if err != nil {
		return Decision{}, eris.Wrap(err, "quota: count portfolios")
	}
	if n >= g.cfg.FreeMaxPortfolios {
		return Decision{
			Allowed: false,
			Reason:  "free-tier portfolio limit reached",
			Plan:    plan,
		}, nil
	}
	return Decision{Allowed: true, Plan: plan}, nil
}

// CanGenerate reports whether the user may run another recommendation
// generation this month.
func (g *Gate) CanGenerate(ctx context.Context, userID string) (Decision, error) {
	plan, err := g.Plan(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	if plan == model.PlanPro {
		return Decision{Allowed: true, Plan: plan}, nil
	}

	n, err := g.store.GenerationCount(ctx, userID, store.MonthKey(time.Now()))
	if err != nil {
		return Decision{}, eris.Wrap(err, "quota: generation count")
	}
	if n >= g.cfg.FreeMonthlyGenerations {
		return Decision{
			Allowed: false,
			Reason:  "free-tier monthly generation limit reached",
			Plan:    plan,
		}, nil
	}
	return Decision{Allowed: true, Plan: plan}, nil
}

// RecordGeneration meters one generation for the user.
func (g *Gate) RecordGeneration(ctx context.Context, userID string) error {
	err := g.store.IncrementGenerations(ctx, userID, store.MonthKey(time.Now()))
	return eris.Wrap(err, "quota: record generation")
}
