// Package database persists research runs and per-platform results to
// Postgres so the compliance dashboard can surface them without log access.
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Store wraps the Postgres connection used by the scheduled worker.
type Store struct {
	db *sql.DB
}

// Connect opens the database and bootstraps the schema.
func Connect(ctx context.Context, connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logrus.Info("database connection established")
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS research_runs (
			id TEXT PRIMARY KEY,
			trigger_type VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'running',
			platform_ids TEXT[] NOT NULL DEFAULT '{}',
			completed INT NOT NULL DEFAULT 0,
			failed INT NOT NULL DEFAULT 0,
			total INT NOT NULL DEFAULT 0,
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		);`,
		`CREATE TABLE IF NOT EXISTS platform_research_results (
			id TEXT PRIMARY KEY,
			run_id TEXT REFERENCES research_runs(id),
			platform_id VARCHAR(100) NOT NULL,
			platform_name VARCHAR(255) NOT NULL,
			status VARCHAR(20) NOT NULL,
			trigger_type VARCHAR(20) NOT NULL,
			researcher VARCHAR(100),
			screenshots JSONB NOT NULL DEFAULT '[]',
			capabilities JSONB NOT NULL DEFAULT '[]',
			steps JSONB NOT NULL DEFAULT '[]',
			assessment JSONB,
			notes TEXT,
			errors TEXT[] NOT NULL DEFAULT '{}',
			started_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL,
			duration_ms BIGINT NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_platform ON platform_research_results(platform_id, completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON platform_research_results(run_id);`,
		`CREATE TABLE IF NOT EXISTS worker_runs (
			id SERIAL PRIMARY KEY,
			worker VARCHAR(100) NOT NULL,
			run_id TEXT,
			summary TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}
	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}
