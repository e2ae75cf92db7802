package models

import (
	"time"
)

// Category groups platforms by the kind of surface they expose.
type Category string

const (
	CategoryStreaming Category = "streaming"
	CategoryGaming    Category = "gaming"
	CategorySocial    Category = "social"
	CategoryDevice    Category = "device"
)

// Status is the outcome of a single platform's research pass.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
	StatusSkipped   Status = "skipped"
)

// RunStatus tracks the lifecycle of a batch run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// TriggerType records how a run was started.
type TriggerType string

const (
	TriggerManual    TriggerType = "manual"
	TriggerScheduled TriggerType = "scheduled"
)

// Credentials is a resolved login pair for one platform. Never persisted;
// lifetime is a single research invocation.
type Credentials struct {
	Email    string
	Password string
}

// CapabilityEntry documents one parental-control feature discovered on a
// platform and its mapping into the internal rule-category taxonomy.
type CapabilityEntry struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	RuleCategory     string   `json:"rule_category"`
	Automatable      bool     `json:"automatable"`
	AutomationMethod string   `json:"automation_method,omitempty"`
	Options          []string `json:"options,omitempty"`
}

// ScreenshotRecord describes one captured image. Filename is the join key
// between the JSON result and the on-disk PNG.
type ScreenshotRecord struct {
	Filename string `json:"filename"`
	Label    string `json:"label"`
	Step     int    `json:"step"`
}

// SetupStep is a human-readable log of one navigation or action, kept so the
// path to each piece of data can be reconstructed for auditing.
type SetupStep struct {
	Order           int    `json:"order"`
	Instruction     string `json:"instruction"`
	ActionType      string `json:"action_type"`
	ScreenshotIndex int    `json:"screenshot_index"` // -1 when no screenshot was taken at this step
}

// Assessment is the derived summary of a platform's parental-control surface,
// computed once per run.
type Assessment struct {
	Complexity       string   `json:"complexity"`
	AgeGating        string   `json:"age_gating"`
	FeatureCount     int      `json:"feature_count"`
	AutomatableCount int      `json:"automatable_count"`
	CoveragePercent  float64  `json:"coverage_percent"`
	Gaps             []string `json:"gaps"`
	Strengths        []string `json:"strengths"`
	ProtectionRating float64  `json:"protection_rating"` // 0-10
}

// PlatformResearchResult is the top-level output of one platform's research
// pass. It is mutated only by the script executing the run and is immutable
// once returned to the caller.
type PlatformResearchResult struct {
	ID           string             `json:"id"`
	RunID        string             `json:"run_id,omitempty"`
	PlatformID   string             `json:"platform_id"`
	PlatformName string             `json:"platform_name"`
	Status       Status             `json:"status"`
	Trigger      TriggerType        `json:"trigger"`
	Researcher   string             `json:"researcher,omitempty"`
	Screenshots  []ScreenshotRecord `json:"screenshots"`
	Capabilities []CapabilityEntry  `json:"capabilities"`
	Steps        []SetupStep        `json:"steps"`
	Assessment   *Assessment        `json:"assessment"`
	Notes        string             `json:"notes,omitempty"`
	Errors       []string           `json:"errors"`
	StartedAt    time.Time          `json:"started_at"`
	CompletedAt  time.Time          `json:"completed_at"`
	DurationMs   int64              `json:"duration_ms"`
}

// ResearchRun is a persisted batch record. Created when a batch starts,
// updated as each platform finishes, finalized when the batch ends.
type ResearchRun struct {
	ID          string      `json:"id"`
	Trigger     TriggerType `json:"trigger"`
	Status      RunStatus   `json:"status"`
	PlatformIDs []string    `json:"platform_ids"`
	Completed   int         `json:"completed"`
	Failed      int         `json:"failed"`
	Total       int         `json:"total"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}
