package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/portfolix/portfolix/internal/db"
	"github.com/portfolix/portfolix/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS portfolios (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	name              TEXT NOT NULL,
	risk_score        DOUBLE PRECISION NOT NULL,
	experience_level  TEXT NOT NULL,
	timeline          TEXT NOT NULL,
	investment_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
	assets            JSONB NOT NULL,
	rationale         TEXT,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS plans (
	user_id    TEXT PRIMARY KEY,
	plan       TEXT NOT NULL DEFAULT 'free',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS generations (
	user_id TEXT NOT NULL,
	month   TEXT NOT NULL,
	count   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, month)
);

CREATE TABLE IF NOT EXISTS alerts (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	portfolio_id TEXT NOT NULL,
	symbol       TEXT NOT NULL,
	drift_pct    DOUBLE PRECISION NOT NULL,
	message      TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_portfolios_user_id ON portfolios(user_id);
CREATE INDEX IF NOT EXISTS idx_alerts_user_id ON alerts(user_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SavePortfolio(ctx context.Context, p *model.Portfolio) (*model.Portfolio, error) {
	saved := *p
	saved.ID = uuid.New().String()
	saved.CreatedAt = time.Now().UTC()

	assetsJSON, err := json.Marshal(saved.Assets)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal assets")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO portfolios (id, user_id, name, risk_score, experience_level, timeline, investment_amount, assets, rationale, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		saved.ID, saved.UserID, saved.Name, saved.RiskScore, string(saved.ExperienceLevel),
		saved.Timeline, saved.InvestmentAmount, string(assetsJSON), saved.Rationale, saved.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert portfolio")
	}
	return &saved, nil
}

func (s *PostgresStore) GetPortfolio(ctx context.Context, userID, id string) (*model.Portfolio, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, name, risk_score, experience_level, timeline, investment_amount, assets, rationale, created_at
		 FROM portfolios WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	p, err := scanPortfolioPgx(row)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (s *PostgresStore) ListPortfolios(ctx context.Context, userID string) ([]model.Portfolio, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, name, risk_score, experience_level, timeline, investment_amount, assets, rationale, created_at
		 FROM portfolios WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list portfolios")
	}
	defer rows.Close()

	var out []model.Portfolio
	for rows.Next() {
		p, err := scanPortfolioPgx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list portfolios iterate")
}

func (s *PostgresStore) DeletePortfolio(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM portfolios WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete portfolio %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "portfolio %s", id)
	}
	return nil
}

func (s *PostgresStore) UpdateInvestmentAmount(ctx context.Context, userID, id string, amount float64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE portfolios SET investment_amount = $1 WHERE id = $2 AND user_id = $3`,
		amount, id, userID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update investment amount %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "portfolio %s", id)
	}
	return nil
}

func (s *PostgresStore) CountPortfolios(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM portfolios WHERE user_id = $1`, userID,
	).Scan(&n)
	return n, eris.Wrap(err, "postgres: count portfolios")
}

func (s *PostgresStore) GetPlan(ctx context.Context, userID string) (model.Plan, error) {
	var plan string
	err := s.pool.QueryRow(ctx,
		`SELECT plan FROM plans WHERE user_id = $1`, userID,
	).Scan(&plan)
	if eris.Is(err, pgx.ErrNoRows) {
		return model.PlanFree, nil
	}
	if err != nil {
		return "", eris.Wrap(err, "postgres: get plan")
	}
	return model.Plan(plan), nil
}

func (s *PostgresStore) SetPlan(ctx context.Context, userID string, plan model.Plan) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plans (user_id, plan, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET plan = EXCLUDED.plan, updated_at = EXCLUDED.updated_at`,
		userID, string(plan), time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: set plan")
}

func (s *PostgresStore) ListProUsers(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id FROM plans WHERE plan = $1 ORDER BY user_id`,
		string(model.PlanPro),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list pro users")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "postgres: scan user id")
		}
		out = append(out, id)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list pro users iterate")
}

func (s *PostgresStore) IncrementGenerations(ctx context.Context, userID, month string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO generations (user_id, month, count) VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, month) DO UPDATE SET count = generations.count + 1`,
		userID, month,
	)
	return eris.Wrap(err, "postgres: increment generations")
}

func (s *PostgresStore) GenerationCount(ctx context.Context, userID, month string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count FROM generations WHERE user_id = $1 AND month = $2`,
		userID, month,
	).Scan(&n)
	if eris.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return n, eris.Wrap(err, "postgres: generation count")
}

func (s *PostgresStore) SaveAlert(ctx context.Context, a *model.Alert) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO alerts (id, user_id, portfolio_id, symbol, drift_pct, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.UserID, a.PortfolioID, a.Symbol, a.DriftPct, a.Message, a.CreatedAt,
	)
	return eris.Wrap(err, "postgres: save alert")
}

func (s *PostgresStore) ListAlerts(ctx context.Context, userID string) ([]model.Alert, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, portfolio_id, symbol, drift_pct, message, created_at
		 FROM alerts WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list alerts")
	}
	defer rows.Close()

	var out []model.Alert
	for rows.Next() {
		var a model.Alert
		if err := rows.Scan(&a.ID, &a.UserID, &a.PortfolioID, &a.Symbol, &a.DriftPct, &a.Message, &a.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan alert")
		}
		out = append(out, a)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list alerts iterate")
}

func scanPortfolioPgx(row pgx.Row) (*model.Portfolio, error) {
	var p model.Portfolio
	var level string
	var assetsJSON []byte
	var rationale *string

	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.RiskScore, &level, &p.Timeline,
		&p.InvestmentAmount, &assetsJSON, &rationale, &p.CreatedAt)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "postgres: scan portfolio")
	}

	p.ExperienceLevel = model.ExperienceLevel(level)
	if rationale != nil {
		p.Rationale = *rationale
	}
	if err := json.Unmarshal(assetsJSON, &p.Assets); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal assets")
	}
	return &p, nil
}
