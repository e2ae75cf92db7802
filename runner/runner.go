// Package runner drives a one-shot research pass across a selected set of
// platforms: one browser for the invocation, one isolated session per
// platform, strictly sequential execution, and a single dated JSON artifact.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"platform-research/creds"
	"platform-research/models"
	"platform-research/registry"
	"platform-research/reports"
	"platform-research/scripts"
	"platform-research/session"
)

// Runner holds the immutable inputs of one invocation.
type Runner struct {
	Registry *registry.Registry
	Creds    creds.Map
	Opts     scripts.Options
	OutDir   string
	PDF      bool

	// NewFactory creates the shared browser. Tests swap in a stub.
	NewFactory func(ctx context.Context) (session.Factory, error)
	// Out receives the ✓/✗ summary lines. Defaults to stdout.
	Out io.Writer
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

// Select resolves CLI filters into the target platform list. Precedence:
// explicit platform id, then category, then every platform with configured
// credentials. Zero candidates is an error; no partial run is attempted.
func (r *Runner) Select(platformID, category string) ([]registry.Platform, error) {
	if platformID != "" {
		p, ok := r.Registry.ByID(platformID)
		if !ok {
			return nil, fmt.Errorf("Unknown platform: %s", platformID)
		}
		if !r.Creds.Configured(p) {
			return nil, fmt.Errorf("no credentials configured for %s", platformID)
		}
		return []registry.Platform{p}, nil
	}

	var candidates []registry.Platform
	if category != "" {
		cat, err := registry.ValidCategory(category)
		if err != nil {
			return nil, err
		}
		candidates = r.Registry.ByCategory(cat)
		if len(candidates) == 0 {
			return nil, fmt.Errorf("no platforms in category: %s", category)
		}
	} else {
		candidates = r.Registry.All()
	}

	var selected []registry.Platform
	for _, p := range candidates {
		if r.Creds.Configured(p) {
			selected = append(selected, p)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no platforms with configured credentials")
	}
	return selected, nil
}

// List prints one row per registry entry with its readiness, without
// touching a browser. Idempotent.
func (r *Runner) List(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tCREDENTIALS\tSCRIPT")
	for _, p := range r.Registry.All() {
		credStatus := "missing"
		if r.Creds.Configured(p) {
			credStatus = "ready"
			if !p.RequiresLogin() {
				credStatus = "not required"
			}
		}
		script := "generic"
		if scripts.Has(p.ID) {
			script = "dedicated"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, credStatus, script)
	}
	tw.Flush()
}

// Run executes the selected platforms sequentially and writes the aggregate
// JSON artifact. One platform's failure never aborts the batch: script-level
// errors arrive as status:"error" results, and anything that still escapes
// is converted to one here.
func (r *Runner) Run(ctx context.Context, platforms []registry.Platform) ([]*models.PlatformResearchResult, error) {
	factory, err := r.NewFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer factory.Close()

	results := make([]*models.PlatformResearchResult, 0, len(platforms))
	for _, p := range platforms {
		logrus.Infof("researching %s (%s)", p.Name, p.ID)
		res := r.researchOne(ctx, factory, p)
		results = append(results, res)

		mark := "✓"
		if res.Status != models.StatusCompleted {
			mark = "✗"
		}
		fmt.Fprintf(r.out(), "%s %s (%s): %d screenshots, %d capabilities, %d errors\n",
			mark, p.Name, res.Status, len(res.Screenshots), len(res.Capabilities), len(res.Errors))
	}

	path, err := reports.WriteJSON(r.OutDir, results)
	if err != nil {
		return results, err
	}
	logrus.Infof("results written to %s", path)

	if r.PDF {
		r.writePDFs(results)
	}

	completed := 0
	for _, res := range results {
		if res.Status == models.StatusCompleted {
			completed++
		}
	}
	fmt.Fprintf(r.out(), "done: %d/%d platforms completed\n", completed, len(results))
	return results, nil
}

func (r *Runner) researchOne(ctx context.Context, factory session.Factory, p registry.Platform) (res *models.PlatformResearchResult) {
	defer func() {
		if rec := recover(); rec != nil {
			res = crashResult(p, r.Opts, fmt.Sprintf("script panic: %v", rec))
		}
	}()

	drv, err := factory.NewSession(ctx)
	if err != nil {
		return crashResult(p, r.Opts, fmt.Sprintf("create session: %v", err))
	}
	defer drv.Quit()

	return scripts.Lookup(p.ID).Research(ctx, drv, p, r.Creds.Resolve(p), r.Opts)
}

func (r *Runner) writePDFs(results []*models.PlatformResearchResult) {
	for _, res := range results {
		if res.Status != models.StatusCompleted {
			continue
		}
		shotDir := ""
		if r.Opts.ScreenshotDir != "" {
			shotDir = r.Opts.ScreenshotDir + "/" + res.PlatformID
		}
		buf, err := reports.GeneratePDF(res, shotDir)
		if err != nil {
			logrus.Warnf("pdf for %s: %v", res.PlatformID, err)
			continue
		}
		path := fmt.Sprintf("%s/research-%s-%s.pdf", r.OutDir, res.PlatformID, time.Now().Format("2006-01-02"))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			logrus.Warnf("write pdf for %s: %v", res.PlatformID, err)
		}
	}
}

// crashResult converts an escaped failure into an error-status row so the
// batch stays one-entry-per-platform with no silent drops.
func crashResult(p registry.Platform, opts scripts.Options, msg string) *models.PlatformResearchResult {
	now := time.Now()
	return &models.PlatformResearchResult{
		ID:           uuid.NewString(),
		PlatformID:   p.ID,
		PlatformName: p.Name,
		Status:       models.StatusError,
		Trigger:      opts.Trigger,
		Researcher:   opts.Researcher,
		Screenshots:  []models.ScreenshotRecord{},
		Capabilities: []models.CapabilityEntry{},
		Steps:        []models.SetupStep{},
		Errors:       []string{msg},
		StartedAt:    now,
		CompletedAt:  now,
	}
}
