// Package worker is the unattended batch orchestrator: it decides which
// platforms most need a refresh, runs them sequentially, and records
// progress and results in the persistence backend for the dashboard.
package worker

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"platform-research/creds"
	"platform-research/models"
	"platform-research/registry"
	"platform-research/scripts"
)

// DefaultDelay is the pause between consecutive platform runs. Sequential
// execution with spacing keeps third-party rate limits and bot detection
// quiet and the progress counters race-free.
const DefaultDelay = 15 * time.Second

// DefaultLimit caps how many platforms one scheduled batch refreshes.
const DefaultLimit = 10

// Store is the persistence surface the worker needs. Implemented by
// database.Store; tests substitute an in-memory fake.
type Store interface {
	CreateRun(ctx context.Context, run *models.ResearchRun) error
	GetRun(ctx context.Context, id string) (*models.ResearchRun, error)
	UpdateRunSelection(ctx context.Context, id string, platformIDs []string) error
	UpdateRunProgress(ctx context.Context, id string, completed, failed int) error
	FinalizeRun(ctx context.Context, id string, status models.RunStatus) error
	InsertResult(ctx context.Context, res *models.PlatformResearchResult) error
	LastCompleted(ctx context.Context) (map[string]time.Time, error)
	InsertWorkerAudit(ctx context.Context, worker, runID, summary string) error
}

// ResearchFunc runs one platform's research pass. The default wires up a
// browser session and the script registry; tests inject stubs.
type ResearchFunc func(ctx context.Context, p registry.Platform, c *models.Credentials, opts scripts.Options) *models.PlatformResearchResult

// Worker executes scheduled research batches.
type Worker struct {
	Registry *registry.Registry
	Creds    creds.Map
	Store    Store
	Research ResearchFunc
	Opts     scripts.Options
	// Delay between platforms; DefaultDelay when zero.
	Delay time.Duration
	// HasScript gates eligibility; defaults to the dedicated-script registry.
	HasScript func(id string) bool
}

func (w *Worker) delay() time.Duration {
	if w.Delay > 0 {
		return w.Delay
	}
	return DefaultDelay
}

func (w *Worker) hasScript(id string) bool {
	if w.HasScript != nil {
		return w.HasScript(id)
	}
	return scripts.Has(id)
}

// eligible returns platforms that have both a dedicated script and
// configured credentials, in registry order.
func (w *Worker) eligible() []registry.Platform {
	var out []registry.Platform
	for _, p := range w.Registry.All() {
		if w.hasScript(p.ID) && w.Creds.Configured(p) {
			out = append(out, p)
		}
	}
	return out
}

// Select computes the batch target list. Platforms never successfully
// researched sort first (registry order preserved); the rest follow by
// ascending last-successful-completion. A platform override bypasses
// staleness entirely.
func (w *Worker) Select(ctx context.Context, limit int, platformID string) ([]registry.Platform, error) {
	if platformID != "" {
		p, ok := w.Registry.ByID(platformID)
		if !ok {
			return nil, fmt.Errorf("Unknown platform: %s", platformID)
		}
		if !w.hasScript(p.ID) {
			return nil, fmt.Errorf("no research script for platform: %s", platformID)
		}
		if !w.Creds.Configured(p) {
			return nil, fmt.Errorf("no credentials configured for %s", platformID)
		}
		return []registry.Platform{p}, nil
	}

	eligible := w.eligible()
	if len(eligible) == 0 {
		return nil, fmt.Errorf("no eligible platforms (script + credentials)")
	}

	last, err := w.Store.LastCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("load staleness data: %w", err)
	}

	var never, researched []registry.Platform
	for _, p := range eligible {
		if _, ok := last[p.ID]; ok {
			researched = append(researched, p)
		} else {
			never = append(never, p)
		}
	}
	sort.SliceStable(researched, func(i, j int) bool {
		return last[researched[i].ID].Before(last[researched[j].ID])
	})

	selected := append(never, researched...)
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(selected) > limit {
		selected = selected[:limit]
	}
	return selected, nil
}

// DryRun logs the selection without creating any records or touching a
// browser, and returns it for inspection. Idempotent.
func (w *Worker) DryRun(ctx context.Context, limit int, platformID string) ([]registry.Platform, error) {
	selected, err := w.Select(ctx, limit, platformID)
	if err != nil {
		return nil, err
	}
	logrus.Infof("dry run: %d platform(s) selected", len(selected))
	for i, p := range selected {
		logrus.Infof("  %d. %s (%s)", i+1, p.ID, p.Name)
	}
	return selected, nil
}

// Run executes a batch. An externally supplied run id attaches results to a
// pre-existing run record (API-triggered batches); otherwise a fresh record
// is created. Returns the finalized run.
func (w *Worker) Run(ctx context.Context, limit int, platformID, externalRunID string) (*models.ResearchRun, error) {
	selected, err := w.Select(ctx, limit, platformID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(selected))
	for i, p := range selected {
		ids[i] = p.ID
	}

	run, err := w.prepareRun(ctx, externalRunID, ids)
	if err != nil {
		return nil, err
	}
	logrus.Infof("run %s started: %d platform(s)", run.ID, run.Total)

	for i, p := range selected {
		if i > 0 {
			if err := sleep(ctx, w.delay()); err != nil {
				return run, err
			}
		}

		logrus.Infof("[%d/%d] researching %s", i+1, run.Total, p.ID)
		res := w.researchOne(ctx, p)
		res.RunID = run.ID
		res.Trigger = w.Opts.Trigger

		if err := w.Store.InsertResult(ctx, res); err != nil {
			logrus.Errorf("persist result for %s: %v", p.ID, err)
		}

		if res.Status == models.StatusCompleted {
			run.Completed++
		} else {
			run.Failed++
		}
		if err := w.Store.UpdateRunProgress(ctx, run.ID, run.Completed, run.Failed); err != nil {
			logrus.Errorf("update run progress: %v", err)
		}
	}

	// The run fails only when nothing at all succeeded; partial success is
	// still a completed batch.
	run.Status = models.RunStatusCompleted
	if run.Completed == 0 {
		run.Status = models.RunStatusFailed
	}
	if err := w.Store.FinalizeRun(ctx, run.ID, run.Status); err != nil {
		logrus.Errorf("finalize run: %v", err)
	}

	summary := fmt.Sprintf("%d/%d completed, %d failed", run.Completed, run.Total, run.Failed)
	if err := w.Store.InsertWorkerAudit(ctx, "platform-research", run.ID, summary); err != nil {
		// Non-critical telemetry.
		logrus.Warnf("worker audit write failed: %v", err)
	}

	logrus.Infof("run %s finished: %s (%s)", run.ID, run.Status, summary)
	return run, nil
}

func (w *Worker) prepareRun(ctx context.Context, externalRunID string, ids []string) (*models.ResearchRun, error) {
	if externalRunID != "" {
		existing, err := w.Store.GetRun(ctx, externalRunID)
		if err != nil {
			return nil, fmt.Errorf("look up run %s: %w", externalRunID, err)
		}
		if existing != nil {
			// The API created the record before the selection existed; write
			// the actual platform list back so the persisted row matches.
			if err := w.Store.UpdateRunSelection(ctx, existing.ID, ids); err != nil {
				return nil, fmt.Errorf("attach selection to run %s: %w", existing.ID, err)
			}
			existing.PlatformIDs = ids
			existing.Total = len(ids)
			existing.Completed, existing.Failed = 0, 0
			return existing, nil
		}
	}

	run := &models.ResearchRun{
		ID:          externalRunID,
		Trigger:     w.Opts.Trigger,
		Status:      models.RunStatusRunning,
		PlatformIDs: ids,
		Total:       len(ids),
		StartedAt:   time.Now(),
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if err := w.Store.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create run record: %w", err)
	}
	return run, nil
}

// researchOne shields the batch from anything the research function lets
// escape; a crash becomes a failed row and the loop continues.
func (w *Worker) researchOne(ctx context.Context, p registry.Platform) (res *models.PlatformResearchResult) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("[%s] research crashed: %v", p.ID, r)
			now := time.Now()
			res = &models.PlatformResearchResult{
				ID:           uuid.NewString(),
				PlatformID:   p.ID,
				PlatformName: p.Name,
				Status:       models.StatusError,
				Trigger:      w.Opts.Trigger,
				Researcher:   w.Opts.Researcher,
				Screenshots:  []models.ScreenshotRecord{},
				Capabilities: []models.CapabilityEntry{},
				Steps:        []models.SetupStep{},
				Errors:       []string{fmt.Sprintf("research crashed: %v", r)},
				StartedAt:    now,
				CompletedAt:  now,
			}
		}
	}()
	return w.Research(ctx, p, w.Creds.Resolve(p), w.Opts)
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
