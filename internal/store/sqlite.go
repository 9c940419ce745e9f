package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/portfolix/portfolix/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS portfolios (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	name              TEXT NOT NULL,
	risk_score        REAL NOT NULL,
	experience_level  TEXT NOT NULL,
	timeline          TEXT NOT NULL,
	investment_amount REAL NOT NULL DEFAULT 0,
	assets            TEXT NOT NULL,
	rationale         TEXT,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS plans (
	user_id    TEXT PRIMARY KEY,
	plan       TEXT NOT NULL DEFAULT 'free',
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
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
	drift_pct    REAL NOT NULL,
	message      TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_portfolios_user_id ON portfolios(user_id);
CREATE INDEX IF NOT EXISTS idx_alerts_user_id ON alerts(user_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SavePortfolio(ctx context.Context, p *model.Portfolio) (*model.Portfolio, error) {
	saved := *p
	saved.ID = uuid.New().String()
	saved.CreatedAt = time.Now().UTC()

	assetsJSON, err := json.Marshal(saved.Assets)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal assets")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO portfolios (id, user_id, name, risk_score, experience_level, timeline, investment_amount, assets, rationale, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		saved.ID, saved.UserID, saved.Name, saved.RiskScore, string(saved.ExperienceLevel),
		saved.Timeline, saved.InvestmentAmount, string(assetsJSON), saved.Rationale, saved.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert portfolio")
	}
	return &saved, nil
}

func (s *SQLiteStore) GetPortfolio(ctx context.Context, userID, id string) (*model.Portfolio, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, risk_score, experience_level, timeline, investment_amount, assets, rationale, created_at
		 FROM portfolios WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	p, err := scanPortfolio(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (s *SQLiteStore) ListPortfolios(ctx context.Context, userID string) ([]model.Portfolio, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, risk_score, experience_level, timeline, investment_amount, assets, rationale, created_at
		 FROM portfolios WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list portfolios")
	}
	defer rows.Close()

	var out []model.Portfolio
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list portfolios iterate")
}

func (s *SQLiteStore) DeletePortfolio(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM portfolios WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete portfolio %s", id)
	}
	return checkRowsAffected(res, "portfolio", id)
}

func (s *SQLiteStore) UpdateInvestmentAmount(ctx context.Context, userID, id string, amount float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE portfolios SET investment_amount = ? WHERE id = ? AND user_id = ?`,
		amount, id, userID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update investment amount %s", id)
	}
	return checkRowsAffected(res, "portfolio", id)
}

func (s *SQLiteStore) CountPortfolios(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM portfolios WHERE user_id = ?`, userID,
	).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count portfolios")
}

func (s *SQLiteStore) GetPlan(ctx context.Context, userID string) (model.Plan, error) {
	var plan string
	err := s.db.QueryRowContext(ctx,
		`SELECT plan FROM plans WHERE user_id = ?`, userID,
	).Scan(&plan)
	if err == sql.ErrNoRows {
		return model.PlanFree, nil
	}
	if err != nil {
		return "", eris.Wrap(err, "sqlite: get plan")
	}
	return model.Plan(plan), nil
}

func (s *SQLiteStore) SetPlan(ctx context.Context, userID string, plan model.Plan) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO plans (user_id, plan, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET plan = excluded.plan, updated_at = excluded.updated_at`,
		userID, string(plan), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: set plan")
}

func (s *SQLiteStore) ListProUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id FROM plans WHERE plan = ? ORDER BY user_id`,
		string(model.PlanPro),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list pro users")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan user id")
		}
		out = append(out, id)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list pro users iterate")
}

func (s *SQLiteStore) IncrementGenerations(ctx context.Context, userID, month string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generations (user_id, month, count) VALUES (?, ?, 1)
		 ON CONFLICT(user_id, month) DO UPDATE SET count = count + 1`,
		userID, month,
	)
	return eris.Wrap(err, "sqlite: increment generations")
}

func (s *SQLiteStore) GenerationCount(ctx context.Context, userID, month string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM generations WHERE user_id = ? AND month = ?`,
		userID, month,
	).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return n, eris.Wrap(err, "sqlite: generation count")
}

func (s *SQLiteStore) SaveAlert(ctx context.Context, a *model.Alert) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (id, user_id, portfolio_id, symbol, drift_pct, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.PortfolioID, a.Symbol, a.DriftPct, a.Message, a.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: save alert")
}

func (s *SQLiteStore) ListAlerts(ctx context.Context, userID string) ([]model.Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, portfolio_id, symbol, drift_pct, message, created_at
		 FROM alerts WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list alerts")
	}
	defer rows.Close()

	var out []model.Alert
	for rows.Next() {
		var a model.Alert
		if err := rows.Scan(&a.ID, &a.UserID, &a.PortfolioID, &a.Symbol, &a.DriftPct, &a.Message, &a.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan alert")
		}
		out = append(out, a)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list alerts iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanPortfolio(row scannable) (*model.Portfolio, error) {
	var p model.Portfolio
	var level string
	var assetsJSON string
	var rationale sql.NullString

	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.RiskScore, &level, &p.Timeline,
		&p.InvestmentAmount, &assetsJSON, &rationale, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan portfolio")
	}

	p.ExperienceLevel = model.ExperienceLevel(level)
	if rationale.Valid {
		p.Rationale = rationale.String
	}
	if err := json.Unmarshal([]byte(assetsJSON), &p.Assets); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal assets")
	}
	return &p, nil
}
