package scripts

import (
	"context"
	"fmt"

	"platform-research/models"
	"platform-research/registry"
	"platform-research/session"
)

// iosScreenTimeScript catalogs iOS Screen Time from Apple's published
// documentation. Device settings need no account login; the script documents
// the support pages and records the known capability surface.
type iosScreenTimeScript struct{}

func (iosScreenTimeScript) Research(ctx context.Context, drv session.Driver, p registry.Platform, creds *models.Credentials, opts Options) *models.PlatformResearchResult {
	rec := NewRecorder(p, opts)

	if err := drv.Navigate(ctx, p.WebsiteURL); err != nil {
		return rec.Fail(fmt.Errorf("open Screen Time documentation: %w", err))
	}
	rec.Step("navigate", "Opened Screen Time overview documentation")
	_ = drv.Wait(ctx, opts.delay())
	rec.Screenshot(ctx, drv, "screen time overview")

	visitSection(ctx, drv, rec, p.ControlsURL, "content restrictions documentation", opts)
	visitSection(ctx, drv, rec, "https://support.apple.com/en-us/105121", "communication limits documentation", opts)

	// Settings themselves live on-device behind the Screen Time passcode;
	// nothing here is reachable from a browser.
	for _, cap := range []models.CapabilityEntry{
		{
			Name:         "Downtime",
			Description:  "Schedule away-from-screen hours; only allowed apps usable",
			RuleCategory: RuleScreenTime,
		},
		{
			Name:         "App limits",
			Description:  "Daily per-category or per-app time budgets",
			RuleCategory: RuleScreenTime,
			Options:      []string{"per-app", "per-category"},
		},
		{
			Name:         "Content & privacy restrictions",
			Description:  "Age-rating caps for apps, movies, TV, books, and web content filter",
			RuleCategory: RuleContentFiltering,
			Options:      []string{"app rating cap", "movie rating cap", "web filter"},
		},
		{
			Name:         "Communication limits",
			Description:  "Restrict calls/messages to contacts during allowed times and downtime",
			RuleCategory: RuleCommunicationLimits,
		},
		{
			Name:         "Ask to Buy",
			Description:  "Purchases and downloads require parent approval",
			RuleCategory: RulePurchaseControls,
		},
		{
			Name:         "Activity reports",
			Description:  "Weekly usage reports per device and app category",
			RuleCategory: RuleMonitoring,
		},
	} {
		rec.Capability(cap)
	}

	rec.Note("All settings are on-device; automation requires MDM or a paired device, not a browser")
	rec.AgeGating("passcode")
	return rec.Complete()
}
