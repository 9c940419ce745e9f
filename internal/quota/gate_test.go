package quota

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolix/portfolix/internal/config"
	"github.com/portfolix/portfolix/internal/model"
	"github.com/portfolix/portfolix/internal/store"
)

func newTestGate(t *testing.T) (*Gate, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "quota.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	cfg := config.QuotaConfig{FreeMaxPortfolios: 2, FreeMonthlyGenerations: 3}
	return NewGate(st, cfg), st
}

func savePortfolios(t *testing.T, st store.Store, userID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := st.SavePortfolio(context.Background(), &model.Portfolio{
			UserID:          userID,
			Name:            "p",
			ExperienceLevel: model.ExperienceBeginner,
			Timeline:        "3-5 years",
			Assets:          []model.Asset{{Symbol: "VTI", Percent: 100, AssetClass: "Equity"}},
		})
		require.NoError(t, err)
	}
}

func TestGate_CanCreatePortfolio_FreeCap(t *testing.T) {
	g, st := newTestGate(t)
	ctx := context.Background()

	d, err := g.CanCreatePortfolio(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	savePortfolios(t, st, "user-1", 2)

	d, err = g.CanCreatePortfolio(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.NotEmpty(t, d.Reason)
	assert.Equal(t, model.PlanFree, d.Plan)
}

func TestGate_CanCreatePortfolio_ProUnlimited(t *testing.T) {
	g, st := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, g.SetPlan(ctx, "user-1", model.PlanPro))
	savePortfolios(t, st, "user-1", 10)

	d, err := g.CanCreatePortfolio(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, model.PlanPro, d.Plan)
}

func TestGate_CanGenerate_MonthlyCap(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := g.CanGenerate(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		require.NoError(t, g.RecordGeneration(ctx, "user-1"))
	}

	d, err := g.CanGenerate(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.NotEmpty(t, d.Reason)
}

func TestGate_PlanCacheInvalidation(t *testing.T) {
	g, st := newTestGate(t)
	ctx := context.Background()

	plan, err := g.Plan(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.PlanFree, plan)

	// A direct store write bypasses the gate; the cache still serves free.
	require.NoError(t, st.SetPlan(ctx, "user-1", model.PlanPro))
	plan, err = g.Plan(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.PlanFree, plan)

	// Explicit invalidation picks up the new plan.
	g.Invalidate("user-1")
	plan, err = g.Plan(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.PlanPro, plan)
}
