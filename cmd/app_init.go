package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/portfolix/portfolix/internal/quota"
	"github.com/portfolix/portfolix/internal/store"
	"github.com/portfolix/portfolix/internal/suggest"
	anthropicpkg "github.com/portfolix/portfolix/pkg/anthropic"
	"github.com/portfolix/portfolix/pkg/captcha"
	"github.com/portfolix/portfolix/pkg/paystack"
)

// appEnv holds the initialized store, quota gate, and optional external
// clients needed by the serve and admin commands.
type appEnv struct {
	Store    store.Store
	Gate     *quota.Gate
	Suggest  *suggest.Service // nil when no Anthropic key
	Payments paystack.Client  // nil when Paystack is not configured
	Captcha  captcha.Verifier // nil disables captcha checks
}

// Close releases resources held by the environment.
func (ae *appEnv) Close() {
	if ae.Store != nil {
		_ = ae.Store.Close()
	}
}

// initStore opens the configured backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		st, err := store.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		zap.L().Info("using sqlite store", zap.String("path", cfg.Store.DatabaseURL))
		return st, nil
	case "postgres":
		st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		zap.L().Info("using postgres store")
		return st, nil
	default:
		return nil, eris.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

// initApp sets up the store, quota gate, and external clients. Callers
// should defer env.Close().
func initApp(ctx context.Context) (*appEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	env := &appEnv{
		Store: st,
		Gate:  quota.NewGate(st, cfg.Quota),
	}

	if cfg.Anthropic.Key != "" {
		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		env.Suggest = suggest.NewService(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
	} else {
		zap.L().Warn("PORTFOLIX_ANTHROPIC_KEY not set, Pro suggestions disabled")
	}

	if cfg.Paystack.Secret != "" {
		env.Payments = paystack.NewClient(cfg.Paystack.Secret, paystack.WithBaseURL(cfg.Paystack.BaseURL))
	} else {
		zap.L().Warn("paystack not configured, payment webhooks disabled")
	}

	if cfg.Captcha.Secret != "" {
		env.Captcha = captcha.NewVerifier(cfg.Captcha.Secret, captcha.WithVerifyURL(cfg.Captcha.VerifyURL))
		zap.L().Info("captcha verification enabled")
	}

	return env, nil
}
