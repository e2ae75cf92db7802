package scripts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"platform-research/models"
	"platform-research/registry"
	"platform-research/session"
)

// Recorder accumulates the steps, screenshots, capabilities, and errors of a
// single platform run. All run state lives here, scoped to one invocation,
// so nothing leaks across runs in a reused process.
type Recorder struct {
	result    *models.PlatformResearchResult
	dir       string
	ageGating string
	notes     []string
	started   time.Time
}

// NewRecorder starts a run record for one platform and prepares its
// screenshot directory.
func NewRecorder(p registry.Platform, opts Options) *Recorder {
	now := time.Now()
	rec := &Recorder{
		result: &models.PlatformResearchResult{
			ID:           uuid.NewString(),
			PlatformID:   p.ID,
			PlatformName: p.Name,
			Trigger:      opts.Trigger,
			Researcher:   opts.Researcher,
			Screenshots:  []models.ScreenshotRecord{},
			Capabilities: []models.CapabilityEntry{},
			Steps:        []models.SetupStep{},
			Errors:       []string{},
			StartedAt:    now,
		},
		started: now,
	}
	if opts.ScreenshotDir != "" {
		rec.dir = filepath.Join(opts.ScreenshotDir, p.ID)
		if err := os.MkdirAll(rec.dir, 0o755); err != nil {
			rec.Errorf("create screenshot dir: %v", err)
			rec.dir = ""
		}
	}
	return rec
}

// Dir returns the per-platform screenshot directory ("" when disabled).
func (r *Recorder) Dir() string { return r.dir }

// Step appends an audit entry for a navigation or action without a
// screenshot.
func (r *Recorder) Step(actionType, format string, args ...interface{}) {
	r.stepWithShot(actionType, -1, format, args...)
}

func (r *Recorder) stepWithShot(actionType string, shot int, format string, args ...interface{}) {
	r.result.Steps = append(r.result.Steps, models.SetupStep{
		Order:           len(r.result.Steps) + 1,
		Instruction:     fmt.Sprintf(format, args...),
		ActionType:      actionType,
		ScreenshotIndex: shot,
	})
}

// Screenshot captures the current page into a deterministically named PNG
// and records it. A capture or write failure is a recoverable error: it goes
// into Errors and the run continues without the image. With no screenshot
// directory nothing is recorded, so every recorded filename has a file.
func (r *Recorder) Screenshot(ctx context.Context, drv session.Driver, label string) {
	if r.dir == "" {
		return
	}
	buf, err := drv.Screenshot(ctx)
	if err != nil {
		r.Errorf("screenshot %q: %v", label, err)
		return
	}

	idx := len(r.result.Screenshots)
	filename := fmt.Sprintf("%02d-%s.png", idx+1, slugify(label))
	if err := os.WriteFile(filepath.Join(r.dir, filename), buf, 0o644); err != nil {
		r.Errorf("write screenshot %q: %v", filename, err)
		return
	}

	r.result.Screenshots = append(r.result.Screenshots, models.ScreenshotRecord{
		Filename: filename,
		Label:    label,
		Step:     len(r.result.Steps) + 1,
	})
	r.stepWithShot("screenshot", idx, "Captured %q", label)
}

// Capability records one documented parental-control feature.
func (r *Recorder) Capability(e models.CapabilityEntry) {
	r.result.Capabilities = append(r.result.Capabilities, e)
}

// AgeGating records the age-gating method the script observed.
func (r *Recorder) AgeGating(method string) { r.ageGating = method }

// Note adds a free-text observation to the result.
func (r *Recorder) Note(format string, args ...interface{}) {
	r.notes = append(r.notes, fmt.Sprintf(format, args...))
}

// Errorf records a recoverable failure. It never changes the run status;
// partial data collection failures are visible in Errors, not fatal.
func (r *Recorder) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logrus.Warnf("[%s] %s", r.result.PlatformID, msg)
	r.result.Errors = append(r.result.Errors, msg)
}

// Complete seals the run as successful and computes the assessment. Errors
// accumulated along the way stay attached.
func (r *Recorder) Complete() *models.PlatformResearchResult {
	r.finishTiming()
	r.result.Status = models.StatusCompleted
	r.result.Assessment = ComputeAssessment(r.result.Capabilities, r.ageGating)
	return r.result
}

// Fail seals the run after an unrecoverable error, preserving whatever
// partial screenshots and steps were collected before the failure.
func (r *Recorder) Fail(err error) *models.PlatformResearchResult {
	r.finishTiming()
	r.result.Status = models.StatusError
	r.result.Assessment = nil
	r.result.Errors = append(r.result.Errors, err.Error())
	logrus.Errorf("[%s] research failed: %v", r.result.PlatformID, err)
	return r.result
}

// Skip seals the run as skipped with a reason, without browser work.
func (r *Recorder) Skip(reason string) *models.PlatformResearchResult {
	r.finishTiming()
	r.result.Status = models.StatusSkipped
	r.result.Notes = reason
	return r.result
}

func (r *Recorder) finishTiming() {
	now := time.Now()
	r.result.CompletedAt = now
	r.result.DurationMs = now.Sub(r.started).Milliseconds()
	if len(r.notes) > 0 {
		r.result.Notes = strings.Join(r.notes, " | ")
	}
}

func slugify(label string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(label) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == ' ', c == '-', c == '_', c == '/':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	if slug == "" {
		slug = "page"
	}
	return slug
}
