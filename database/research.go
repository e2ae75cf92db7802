package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"platform-research/models"
)

// CreateRun inserts a new batch record with status "running".
func (s *Store) CreateRun(ctx context.Context, run *models.ResearchRun) error {
	query := `INSERT INTO research_runs (id, trigger_type, status, platform_ids, completed, failed, total, started_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.Trigger, run.Status, pq.Array(run.PlatformIDs),
		run.Completed, run.Failed, run.Total, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// GetRun loads a run record, or nil when no such run exists.
func (s *Store) GetRun(ctx context.Context, id string) (*models.ResearchRun, error) {
	query := `SELECT id, trigger_type, status, platform_ids, completed, failed, total, started_at, completed_at
	FROM research_runs WHERE id = $1`

	var run models.ResearchRun
	var completedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.Trigger, &run.Status, pq.Array(&run.PlatformIDs),
		&run.Completed, &run.Failed, &run.Total, &run.StartedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	return &run, nil
}

// UpdateRunSelection writes the batch's platform list onto an existing run
// record and resets its counters. Used when the worker attaches to a run
// created externally, so the persisted row reflects the actual selection.
func (s *Store) UpdateRunSelection(ctx context.Context, id string, platformIDs []string) error {
	query := `UPDATE research_runs SET platform_ids = $1, total = $2, completed = 0, failed = 0 WHERE id = $3`
	if _, err := s.db.ExecContext(ctx, query, pq.Array(platformIDs), len(platformIDs), id); err != nil {
		return fmt.Errorf("update run selection: %w", err)
	}
	return nil
}

// UpdateRunProgress bumps the per-platform counters as the batch advances.
func (s *Store) UpdateRunProgress(ctx context.Context, id string, completed, failed int) error {
	query := `UPDATE research_runs SET completed = $1, failed = $2 WHERE id = $3`
	if _, err := s.db.ExecContext(ctx, query, completed, failed, id); err != nil {
		return fmt.Errorf("update run progress: %w", err)
	}
	return nil
}

// FinalizeRun freezes the run's status and stamps its completion time.
func (s *Store) FinalizeRun(ctx context.Context, id string, status models.RunStatus) error {
	query := `UPDATE research_runs SET status = $1, completed_at = NOW() WHERE id = $2`
	if _, err := s.db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("finalize run: %w", err)
	}
	return nil
}

// InsertResult persists one platform's research result, tagged with its run.
// Screenshot image bytes live on disk; only the records (filenames) are
// stored here.
func (s *Store) InsertResult(ctx context.Context, res *models.PlatformResearchResult) error {
	screenshots, err := json.Marshal(res.Screenshots)
	if err != nil {
		return fmt.Errorf("marshal screenshots: %w", err)
	}
	capabilities, err := json.Marshal(res.Capabilities)
	if err != nil {
		return fmt.Errorf("marshal capabilities: %w", err)
	}
	steps, err := json.Marshal(res.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}
	var assessment interface{}
	if res.Assessment != nil {
		b, err := json.Marshal(res.Assessment)
		if err != nil {
			return fmt.Errorf("marshal assessment: %w", err)
		}
		assessment = b
	}

	query := `INSERT INTO platform_research_results
	(id, run_id, platform_id, platform_name, status, trigger_type, researcher,
	 screenshots, capabilities, steps, assessment, notes, errors,
	 started_at, completed_at, duration_ms)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	var runID interface{}
	if res.RunID != "" {
		runID = res.RunID
	}
	_, err = s.db.ExecContext(ctx, query,
		res.ID, runID, res.PlatformID, res.PlatformName, res.Status, res.Trigger, res.Researcher,
		screenshots, capabilities, steps, assessment, res.Notes, pq.Array(res.Errors),
		res.StartedAt, res.CompletedAt, res.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// LastCompleted returns, per platform id, the most recent successful
// completion timestamp. Platforms never successfully researched are absent
// from the map; staleness ordering treats them as oldest.
func (s *Store) LastCompleted(ctx context.Context) (map[string]time.Time, error) {
	query := `SELECT platform_id, MAX(completed_at)
	FROM platform_research_results
	WHERE status = 'completed'
	GROUP BY platform_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query last completions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var ts time.Time
		if err := rows.Scan(&id, &ts); err != nil {
			return nil, fmt.Errorf("scan last completion: %w", err)
		}
		out[id] = ts
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate last completions: %w", err)
	}
	return out, nil
}

// InsertWorkerAudit writes a row to the generic worker audit table. Callers
// treat failures here as non-critical telemetry.
func (s *Store) InsertWorkerAudit(ctx context.Context, worker, runID, summary string) error {
	query := `INSERT INTO worker_runs (worker, run_id, summary) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, worker, runID, summary); err != nil {
		return fmt.Errorf("insert worker audit: %w", err)
	}
	return nil
}
