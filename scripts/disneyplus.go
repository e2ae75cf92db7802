package scripts

import (
	"context"
	"fmt"

	"platform-research/models"
	"platform-research/registry"
	"platform-research/session"
)

// disneyPlusScript documents Disney+ profile ratings, kid-proof exit, and
// profile PIN controls.
type disneyPlusScript struct{}

func (disneyPlusScript) Research(ctx context.Context, drv session.Driver, p registry.Platform, creds *models.Credentials, opts Options) *models.PlatformResearchResult {
	rec := NewRecorder(p, opts)
	if creds == nil {
		return rec.Fail(fmt.Errorf("disney+ requires credentials"))
	}

	if err := drv.Navigate(ctx, p.LoginURL); err != nil {
		return rec.Fail(fmt.Errorf("open login page: %w", err))
	}
	rec.Step("navigate", "Opened Disney+ login page")
	_ = drv.Wait(ctx, opts.delay())
	rec.Screenshot(ctx, drv, "login page")

	if err := login(ctx, drv, rec, creds, opts); err != nil {
		return rec.Fail(err)
	}

	if visitSection(ctx, drv, rec, "https://www.disneyplus.com/edit-profiles", "profile editor", opts) {
		// Disney+ collapses rating options per profile; expand what's there.
		expandAll(ctx, drv, rec, `[data-testid="profile-avatar"]`, "profile", opts)
	}

	if visitSection(ctx, drv, rec, "https://www.disneyplus.com/account", "account settings", opts) {
		passwordGate(ctx, drv, rec, creds.Password, opts)
		probeToggle(ctx, drv, rec, "Content rating limit", RuleContentFiltering,
			`[data-testid="maturity-rating-select"]`,
			`select[name="contentRating"]`,
		)
		probeToggle(ctx, drv, rec, "Kids profile toggle", RuleContentFiltering,
			`[data-testid="kids-profile-toggle"]`,
			`input[type="checkbox"]`,
		)
		probeToggle(ctx, drv, rec, "Kid-proof exit", RulePrivacy,
			`[data-testid="kid-proof-exit-toggle"]`,
		)
		probeToggle(ctx, drv, rec, "Profile PIN", RulePrivacy,
			`[data-testid="profile-pin-toggle"]`,
			`input[inputmode="numeric"]`,
		)
	}

	rec.Capability(models.CapabilityEntry{
		Name:         "Junior Mode",
		Description:  "Simplified interface restricted to all-ages titles",
		RuleCategory: RuleContentFiltering,
		Automatable:  false,
	})

	rec.AgeGating("maturity-rating")
	return rec.Complete()
}
