package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// schema holds the model-store DDL. Idempotent so it can run at startup.
const schema = `
CREATE TABLE IF NOT EXISTS outlier_models (
	id            UUID PRIMARY KEY,
	detector      TEXT NOT NULL,
	n_features    INTEGER NOT NULL,
	n_bins        INTEGER NOT NULL DEFAULT 0,
	alpha         DOUBLE PRECISION NOT NULL DEFAULT 0,
	tol           DOUBLE PRECISION NOT NULL DEFAULT 0,
	contamination DOUBLE PRECISION NOT NULL,
	histograms    JSONB,
	threshold     DOUBLE PRECISION NOT NULL,
	fingerprint   TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_outlier_models_detector
	ON outlier_models (detector, created_at DESC);
`

// Connect opens a postgres connection pool from a DSN
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// Migrate applies the model-store schema
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
