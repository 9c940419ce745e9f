package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolix/portfolix/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testPortfolio(userID string) *model.Portfolio {
	return &model.Portfolio{
		UserID:           userID,
		Name:             "Retirement",
		RiskScore:        62.5,
		ExperienceLevel:  model.ExperienceIntermediate,
		Timeline:         "10+ years",
		InvestmentAmount: 15_000,
		Assets: []model.Asset{
			{Symbol: "VTI", Name: "Vanguard Total Stock Market ETF", Percent: 60, AssetClass: "Equity"},
			{Symbol: "BND", Name: "Vanguard Total Bond Market ETF", Percent: 40, AssetClass: "Bond"},
		},
		Rationale: "balanced growth",
	}
}

// --- Portfolios ---

func TestSQLite_SaveAndGetPortfolio(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := st.SavePortfolio(ctx, testPortfolio("user-1"))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := st.GetPortfolio(ctx, "user-1", saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Retirement", got.Name)
	assert.Equal(t, 62.5, got.RiskScore)
	assert.Len(t, got.Assets, 2)
	assert.Equal(t, "VTI", got.Assets[0].Symbol)
}

func TestSQLite_GetPortfolio_WrongOwner(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := st.SavePortfolio(ctx, testPortfolio("user-1"))
	require.NoError(t, err)

	got, err := st.GetPortfolio(ctx, "user-2", saved.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_ListPortfolios(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := st.SavePortfolio(ctx, testPortfolio("user-1"))
		require.NoError(t, err)
	}
	_, err := st.SavePortfolio(ctx, testPortfolio("user-2"))
	require.NoError(t, err)

	list, err := st.ListPortfolios(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	n, err := st.CountPortfolios(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSQLite_DeletePortfolio(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := st.SavePortfolio(ctx, testPortfolio("user-1"))
	require.NoError(t, err)

	// Another user cannot delete it.
	assert.ErrorIs(t, st.DeletePortfolio(ctx, "user-2", saved.ID), ErrNotFound)

	require.NoError(t, st.DeletePortfolio(ctx, "user-1", saved.ID))

	got, err := st.GetPortfolio(ctx, "user-1", saved.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again reports not found.
	assert.ErrorIs(t, st.DeletePortfolio(ctx, "user-1", saved.ID), ErrNotFound)
}

func TestSQLite_UpdateInvestmentAmount(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := st.SavePortfolio(ctx, testPortfolio("user-1"))
	require.NoError(t, err)

	require.NoError(t, st.UpdateInvestmentAmount(ctx, "user-1", saved.ID, 50_000))

	got, err := st.GetPortfolio(ctx, "user-1", saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 50_000.0, got.InvestmentAmount)

	assert.ErrorIs(t, st.UpdateInvestmentAmount(ctx, "user-1", "missing-id", 1), ErrNotFound)
}

// --- Plans ---

func TestSQLite_PlanDefaultsToFree(t *testing.T) {
	st := newTestSQLiteStore(t)

	plan, err := st.GetPlan(context.Background(), "unknown-user")
	require.NoError(t, err)
	assert.Equal(t, model.PlanFree, plan)
}

func TestSQLite_SetPlan(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetPlan(ctx, "user-1", model.PlanPro))
	plan, err := st.GetPlan(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.PlanPro, plan)

	// Downgrade overwrites.
	require.NoError(t, st.SetPlan(ctx, "user-1", model.PlanFree))
	plan, err = st.GetPlan(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.PlanFree, plan)
}

func TestSQLite_ListProUsers(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	users, err := st.ListProUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, st.SetPlan(ctx, "user-b", model.PlanPro))
	require.NoError(t, st.SetPlan(ctx, "user-a", model.PlanPro))
	require.NoError(t, st.SetPlan(ctx, "user-c", model.PlanFree))

	users, err = st.ListProUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-a", "user-b"}, users)
}

// --- Generations ---

func TestSQLite_GenerationMetering(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	month := MonthKey(time.Now())

	n, err := st.GenerationCount(ctx, "user-1", month)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for i := 0; i < 4; i++ {
		require.NoError(t, st.IncrementGenerations(ctx, "user-1", month))
	}

	n, err = st.GenerationCount(ctx, "user-1", month)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// Other months are independent buckets.
	n, err = st.GenerationCount(ctx, "user-1", "1999-01")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

// --- Alerts ---

func TestSQLite_Alerts(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	err := st.SaveAlert(ctx, &model.Alert{
		UserID:      "user-1",
		PortfolioID: "p-1",
		Symbol:      "VTI",
		DriftPct:    7.5,
		Message:     "VTI drifted 7.5pp above target",
	})
	require.NoError(t, err)

	alerts, err := st.ListAlerts(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "VTI", alerts[0].Symbol)
	assert.NotEmpty(t, alerts[0].ID)

	alerts, err = st.ListAlerts(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, alerts)
}
