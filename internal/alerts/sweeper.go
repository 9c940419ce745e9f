// Package alerts runs the scheduled rebalancing drift sweep for Pro
// accounts. The sweep is deterministic: it compares saved allocations
// against their archetype baseline and records an alert per drifted
// position.
package alerts

import (
	"context"
	"fmt"
	"math"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/portfolix/portfolix/internal/config"
	"github.com/portfolix/portfolix/internal/engine"
	"github.com/portfolix/portfolix/internal/model"
	"github.com/portfolix/portfolix/internal/store"
)

// Sweeper schedules and executes the drift sweep.
type Sweeper struct {
	store store.Store
	cfg   config.AlertsConfig
	cron  *cron.Cron
	ctx   context.Context
}

// NewSweeper creates a Sweeper. The cron expression uses six fields
// (with seconds).
func NewSweeper(ctx context.Context, st store.Store, cfg config.AlertsConfig) *Sweeper {
	return &Sweeper{
		store: st,
		cfg:   cfg,
		cron:  cron.New(cron.WithSeconds()),
		ctx:   ctx,
	}
}

// Start registers the sweep and starts the scheduler.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Cron, func() {
		if err := s.Sweep(s.ctx); err != nil {
			zap.L().Error("alerts: sweep failed", zap.Error(err))
		}
	}); err != nil {
		return eris.Wrap(err, "alerts: register sweep")
	}
	s.cron.Start()
	zap.L().Info("alerts: sweeper started", zap.String("cron", s.cfg.Cron))
	return nil
}

// Stop stops the scheduler. In-flight sweeps run to completion.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	zap.L().Info("alerts: sweeper stopped")
}

// Sweep runs one pass over every Pro user's saved portfolios. A
// failure on one portfolio does not abort the rest.
func (s *Sweeper) Sweep(ctx context.Context) error {
	users, err := s.store.ListProUsers(ctx)
	if err != nil {
		return eris.Wrap(err, "alerts: list pro users")
	}

	var recorded int
	for _, uid := range users {
		portfolios, err := s.store.ListPortfolios(ctx, uid)
		if err != nil {
			zap.L().Error("alerts: list portfolios", zap.String("user", uid), zap.Error(err))
			continue
		}
		for i := range portfolios {
			for _, a := range DriftAlerts(&portfolios[i], s.cfg.DriftThresholdPct) {
				if err := s.store.SaveAlert(ctx, &a); err != nil {
					zap.L().Error("alerts: save alert",
						zap.String("portfolio", a.PortfolioID),
						zap.Error(err),
					)
					continue
				}
				recorded++
			}
		}
	}

	zap.L().Info("alerts: sweep complete",
		zap.Int("pro_users", len(users)),
		zap.Int("alerts_recorded", recorded),
	)
	return nil
}

// DriftAlerts compares a portfolio against its archetype baseline and
// returns one alert per position drifted beyond the threshold.
// Positions absent from the baseline have a zero target; baseline
// positions absent from the portfolio count as fully drifted.
func DriftAlerts(p *model.Portfolio, thresholdPct float64) []model.Alert {
	strategy, ok := engine.StrategyFor(engine.SelectArchetype(p.RiskScore))
	if !ok {
		return nil
	}

	targets := make(map[string]float64, len(strategy.Allocation))
	for _, a := range strategy.Allocation {
		targets[a.Symbol] = a.Percent
	}
	actuals := make(map[string]float64, len(p.Assets))
	for _, a := range p.Assets {
		actuals[a.Symbol] = a.Percent
	}

	symbols := make([]string, 0, len(targets)+len(actuals))
	for _, a := range strategy.Allocation {
		symbols = append(symbols, a.Symbol)
	}
	for _, a := range p.Assets {
		if _, ok := targets[a.Symbol]; !ok {
			symbols = append(symbols, a.Symbol)
		}
	}

	var out []model.Alert
	for _, sym := range symbols {
		drift := actuals[sym] - targets[sym]
		if math.Abs(drift) <= thresholdPct {
			continue
		}
		direction := "above"
		if drift < 0 {
			direction = "below"
		}
		out = append(out, model.Alert{
			UserID:      p.UserID,
			PortfolioID: p.ID,
			Symbol:      sym,
			DriftPct:    drift,
			Message: fmt.Sprintf("%s is %.1fpp %s its %.1f%% target",
				sym, math.Abs(drift), direction, targets[sym]),
		})
	}
	return out
}
