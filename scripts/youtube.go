package scripts

import (
	"context"
	"fmt"

	"platform-research/models"
	"platform-research/registry"
	"platform-research/session"
)

// youtubeScript documents YouTube's Restricted Mode and the supervised
// experience settings reachable from a signed-in account.
type youtubeScript struct{}

func (youtubeScript) Research(ctx context.Context, drv session.Driver, p registry.Platform, creds *models.Credentials, opts Options) *models.PlatformResearchResult {
	rec := NewRecorder(p, opts)
	if creds == nil {
		return rec.Fail(fmt.Errorf("youtube requires credentials"))
	}

	if err := drv.Navigate(ctx, p.LoginURL); err != nil {
		return rec.Fail(fmt.Errorf("open login page: %w", err))
	}
	rec.Step("navigate", "Opened Google sign-in for YouTube")
	_ = drv.Wait(ctx, opts.delay())
	rec.Screenshot(ctx, drv, "login page")

	// Google uses a two-step identifier-then-password form; the shared login
	// helper handles the continue click between the two.
	if err := login(ctx, drv, rec, creds, opts); err != nil {
		return rec.Fail(err)
	}

	if visitSection(ctx, drv, rec, "https://www.youtube.com/account", "account settings", opts) {
		probeToggle(ctx, drv, rec, "Restricted Mode", RuleContentFiltering,
			`[aria-label*="Restricted Mode"]`,
			`tp-yt-paper-toggle-button`,
			`input[type="checkbox"]`,
		)
	}

	visitSection(ctx, drv, rec, "https://www.youtube.com/account_notifications", "notification settings", opts)

	if visitSection(ctx, drv, rec, "https://www.youtube.com/feed/history", "watch history", opts) {
		rec.Capability(models.CapabilityEntry{
			Name:             "Watch history",
			Description:      "Full watch history viewable and clearable per account",
			RuleCategory:     RuleMonitoring,
			Automatable:      true,
			AutomationMethod: "browser:https://www.youtube.com/feed/history",
		})
	}

	if visitSection(ctx, drv, rec, "https://www.youtube.com/account_playback", "playback settings", opts) {
		probeToggle(ctx, drv, rec, "Autoplay default", RuleScreenTime,
			`[aria-label*="Autoplay"]`,
			`input[type="checkbox"]`,
		)
	}

	rec.Capability(models.CapabilityEntry{
		Name:         "Supervised experience",
		Description:  "Content level tiers for supervised accounts (Explore, Explore More, Most of YouTube)",
		RuleCategory: RuleContentFiltering,
		Automatable:  false,
		Options:      []string{"Explore", "Explore More", "Most of YouTube"},
	})
	rec.Capability(models.CapabilityEntry{
		Name:         "YouTube Kids handoff",
		Description:  "Separate curated app for under-13 viewing",
		RuleCategory: RuleContentFiltering,
		Automatable:  false,
	})
	rec.Note("Supervision tiers are managed from Family Link, not youtube.com")

	rec.AgeGating("supervised-account")
	return rec.Complete()
}
