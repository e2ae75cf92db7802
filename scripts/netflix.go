package scripts

import (
	"context"
	"fmt"

	"platform-research/models"
	"platform-research/registry"
	"platform-research/session"
)

// netflixScript documents Netflix's per-profile parental controls: maturity
// ratings, title restrictions, profile locks, and playback settings.
type netflixScript struct{}

func (netflixScript) Research(ctx context.Context, drv session.Driver, p registry.Platform, creds *models.Credentials, opts Options) *models.PlatformResearchResult {
	rec := NewRecorder(p, opts)
	if creds == nil {
		return rec.Fail(fmt.Errorf("netflix requires credentials"))
	}

	if err := drv.Navigate(ctx, p.LoginURL); err != nil {
		return rec.Fail(fmt.Errorf("open login page: %w", err))
	}
	rec.Step("navigate", "Opened Netflix login page")
	_ = drv.Wait(ctx, opts.delay())
	rec.Screenshot(ctx, drv, "login page")

	if err := login(ctx, drv, rec, creds, opts); err != nil {
		return rec.Fail(err)
	}
	rec.Note("Logged in as %s", truncate(creds.Email, 3)+"***")

	visitSection(ctx, drv, rec, "https://www.netflix.com/account/profiles", "profile hub", opts)

	// Maturity rating lives behind the profile's viewing restrictions page,
	// which re-prompts for the account password.
	if visitSection(ctx, drv, rec, "https://www.netflix.com/settings/maturity", "maturity rating settings", opts) {
		passwordGate(ctx, drv, rec, creds.Password, opts)
		probeToggle(ctx, drv, rec, "Maturity rating limit", RuleContentFiltering,
			`input[type="range"]`,
			`[data-uia="maturity-rating-slider"]`,
			`select[name="maturityRating"]`,
		)
	}

	if visitSection(ctx, drv, rec, "https://www.netflix.com/settings/restrictions", "title restrictions", opts) {
		passwordGate(ctx, drv, rec, creds.Password, opts)
		probeToggle(ctx, drv, rec, "Title restrictions", RuleContentFiltering,
			`[data-uia="title-restriction-input"]`,
			`input[placeholder*="title"]`,
		)
	}

	if visitSection(ctx, drv, rec, "https://www.netflix.com/settings/lock", "profile lock", opts) {
		passwordGate(ctx, drv, rec, creds.Password, opts)
		probeToggle(ctx, drv, rec, "Profile lock PIN", RulePrivacy,
			`[data-uia="profile-lock-toggle"]`,
			`input[type="checkbox"]`,
		)
	}

	if visitSection(ctx, drv, rec, "https://www.netflix.com/settings/playback", "playback settings", opts) {
		probeToggle(ctx, drv, rec, "Autoplay controls", RuleScreenTime,
			`[data-uia="autoplay-toggle"]`,
			`input[type="checkbox"]`,
		)
	}

	rec.Capability(models.CapabilityEntry{
		Name:             "Viewing activity log",
		Description:      "Per-profile watch history viewable and exportable",
		RuleCategory:     RuleMonitoring,
		Automatable:      true,
		AutomationMethod: "browser:https://www.netflix.com/viewingactivity",
	})
	rec.Capability(models.CapabilityEntry{
		Name:         "Kids profile",
		Description:  "Dedicated child profile with curated catalog",
		RuleCategory: RuleContentFiltering,
		Automatable:  false,
		Options:      []string{"Little Kids", "Older Kids"},
	})

	rec.AgeGating("maturity-rating")
	return rec.Complete()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
