// Package storage persists completed valuation runs in PostgreSQL.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ampyfin/vald/internal/contracts"
	"github.com/ampyfin/vald/pkg/logger"
)

// PostgresRepository stores each run as a row in vald_runs plus one row per
// ticker in vald_consensus for direct SQL querying of consensus history.
type PostgresRepository struct {
	log  *logger.Logger
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to the database and ensures the schema.
func NewPostgresRepository(ctx context.Context, log *logger.Logger, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	repo := &PostgresRepository{log: log, pool: pool}
	if err := repo.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() {
	r.pool.Close()
}

func (r *PostgresRepository) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS vald_runs (
	run_id       TEXT PRIMARY KEY,
	generated_at TIMESTAMPTZ NOT NULL,
	payload      JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS vald_consensus (
	run_id               TEXT NOT NULL REFERENCES vald_runs(run_id) ON DELETE CASCADE,
	ticker               TEXT NOT NULL,
	current_price        DOUBLE PRECISION,
	consensus_fair_value DOUBLE PRECISION,
	consensus_discount   DOUBLE PRECISION,
	consensus_p25        DOUBLE PRECISION,
	consensus_p75        DOUBLE PRECISION,
	PRIMARY KEY (run_id, ticker)
);
CREATE INDEX IF NOT EXISTS idx_vald_consensus_ticker ON vald_consensus (ticker);
`
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

// SaveRun writes the run and its per-ticker consensus rows in one
// transaction.
func (r *PostgresRepository) SaveRun(ctx context.Context, result *contracts.RunResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding run payload: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO vald_runs (run_id, generated_at, payload) VALUES ($1, $2, $3)`,
		result.RunID, result.GeneratedAt, payload,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, tk := range result.Tickers {
		rec := result.ByTicker[tk]
		if rec == nil {
			continue
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO vald_consensus
			 (run_id, ticker, current_price, consensus_fair_value, consensus_discount, consensus_p25, consensus_p75)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			result.RunID, tk,
			rec.CurrentPrice, rec.ConsensusFairValue, rec.ConsensusDiscount,
			rec.ConsensusP25, rec.ConsensusP75,
		)
		if err != nil {
			return fmt.Errorf("inserting consensus row for %s: %w", tk, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}

	r.log.WithFields(map[string]interface{}{
		"run_id":  result.RunID,
		"tickers": len(result.Tickers),
	}).Debug("run persisted")
	return nil
}

// LatestRun returns the most recent stored run, or nil when none exists.
func (r *PostgresRepository) LatestRun(ctx context.Context) (*contracts.RunResult, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM vald_runs ORDER BY generated_at DESC LIMIT 1`,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest run: %w", err)
	}

	var result contracts.RunResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decoding run payload: %w", err)
	}
	return &result, nil
}
