package scripts

import (
	"context"
	"fmt"

	"platform-research/models"
	"platform-research/registry"
	"platform-research/session"
)

// instagramScript documents Instagram's supervision tools and the teen
// account defaults reachable from the web settings.
type instagramScript struct{}

func (instagramScript) Research(ctx context.Context, drv session.Driver, p registry.Platform, creds *models.Credentials, opts Options) *models.PlatformResearchResult {
	rec := NewRecorder(p, opts)
	if creds == nil {
		return rec.Fail(fmt.Errorf("instagram requires credentials"))
	}

	if err := drv.Navigate(ctx, p.LoginURL); err != nil {
		return rec.Fail(fmt.Errorf("open login page: %w", err))
	}
	rec.Step("navigate", "Opened Instagram login page")
	_ = drv.Wait(ctx, opts.delay())
	rec.Screenshot(ctx, drv, "login page")

	if err := login(ctx, drv, rec, creds, opts); err != nil {
		return rec.Fail(err)
	}

	// Dismiss the save-login and notification interstitials when present.
	if sel, ok := session.FirstMatch(ctx, drv, `button:nth-of-type(2)`, `[role="dialog"] button`); ok {
		if err := drv.Click(ctx, sel); err == nil {
			rec.Step("click", "Dismissed post-login interstitial")
			_ = drv.Wait(ctx, opts.delay())
		}
	}

	if visitSection(ctx, drv, rec, "https://www.instagram.com/accounts/supervision/", "supervision hub", opts) {
		probeToggle(ctx, drv, rec, "Daily time limit", RuleScreenTime,
			`[aria-label*="time limit"]`,
			`input[type="range"]`,
		)
		probeToggle(ctx, drv, rec, "Scheduled breaks", RuleScreenTime,
			`[aria-label*="breaks"]`,
		)
	}

	if visitSection(ctx, drv, rec, "https://www.instagram.com/accounts/privacy_and_security/", "privacy settings", opts) {
		probeToggle(ctx, drv, rec, "Private account", RulePrivacy,
			`input[type="checkbox"]`,
		)
	}

	if visitSection(ctx, drv, rec, "https://www.instagram.com/accounts/comment_filter/", "comment filtering", opts) {
		probeToggle(ctx, drv, rec, "Hidden words filter", RuleContentFiltering,
			`input[type="checkbox"]`,
		)
	}

	rec.Capability(models.CapabilityEntry{
		Name:         "Message request limits",
		Description:  "Teen defaults restrict DMs from unknown adults",
		RuleCategory: RuleCommunicationLimits,
		Automatable:  false,
	})
	rec.Capability(models.CapabilityEntry{
		Name:         "Supervised account insights",
		Description:  "Parent view of time spent, followers, and reported accounts",
		RuleCategory: RuleMonitoring,
		Automatable:  false,
	})
	rec.Note("Full supervision pairing requires the parent's mobile app; web exposes a read-only subset")

	rec.AgeGating("supervised-account")
	return rec.Complete()
}
