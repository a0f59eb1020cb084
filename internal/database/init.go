package database

import (
	"context"
	"fmt"

	"github.com/yourusername/goal-edge/internal/config"
)

// schema creates the tables goal-edge reads and writes. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS feed_predictions (
		id           UUID PRIMARY KEY,
		match_id     UUID NOT NULL,
		provider     TEXT NOT NULL,
		home_percent TEXT,
		draw_percent TEXT,
		away_percent TEXT,
		advice       TEXT,
		extra        JSONB,
		fetched_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feed_predictions_match
		ON feed_predictions (match_id, provider, fetched_at DESC)`,
	`CREATE TABLE IF NOT EXISTS match_analyses (
		id                UUID PRIMARY KEY,
		match_id          UUID NOT NULL,
		home_team         TEXT NOT NULL,
		away_team         TEXT NOT NULL,
		strategy          TEXT,
		sources_used      TEXT[],
		home_win          DOUBLE PRECISION NOT NULL,
		draw              DOUBLE PRECISION NOT NULL,
		away_win          DOUBLE PRECISION NOT NULL,
		most_likely_score TEXT,
		prediction        JSONB NOT NULL,
		analyzed_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_match_analyses_match
		ON match_analyses (match_id, analyzed_at DESC)`,
	`CREATE TABLE IF NOT EXISTS value_assessments (
		analysis_id       UUID NOT NULL REFERENCES match_analyses (id) ON DELETE CASCADE,
		market            TEXT NOT NULL,
		outcome           TEXT NOT NULL,
		probability       DOUBLE PRECISION NOT NULL,
		odds              DOUBLE PRECISION NOT NULL,
		stake             DOUBLE PRECISION NOT NULL,
		ev                DOUBLE PRECISION NOT NULL,
		ev_percentage     DOUBLE PRECISION NOT NULL,
		kelly_fraction    DOUBLE PRECISION NOT NULL,
		adjusted_kelly    DOUBLE PRECISION NOT NULL,
		has_value         BOOLEAN NOT NULL,
		is_good_bet       BOOLEAN NOT NULL,
		recommended_stake NUMERIC(14, 2),
		PRIMARY KEY (analysis_id, market, outcome)
	)`,
}

// Initialize creates a database connection pool and applies the schema
func Initialize(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates missing tables and indexes
func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
