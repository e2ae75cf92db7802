package scripts

import (
	"context"
	"fmt"

	"platform-research/models"
	"platform-research/registry"
	"platform-research/session"
)

// tiktokScript documents TikTok's Family Pairing, Restricted Mode, and
// screen-time settings.
type tiktokScript struct{}

func (tiktokScript) Research(ctx context.Context, drv session.Driver, p registry.Platform, creds *models.Credentials, opts Options) *models.PlatformResearchResult {
	rec := NewRecorder(p, opts)
	if creds == nil {
		return rec.Fail(fmt.Errorf("tiktok requires credentials"))
	}

	if err := drv.Navigate(ctx, p.LoginURL); err != nil {
		return rec.Fail(fmt.Errorf("open login page: %w", err))
	}
	rec.Step("navigate", "Opened TikTok login page")
	_ = drv.Wait(ctx, opts.delay())
	rec.Screenshot(ctx, drv, "login page")

	// TikTok's web login hides email/password behind a "Use email" link.
	if sel, ok := session.FirstMatch(ctx, drv,
		`a[href*="/login/phone-or-email/email"]`,
		`div[data-e2e="login-method-email"]`,
	); ok {
		if err := drv.Click(ctx, sel); err == nil {
			rec.Step("click", "Switched to email login")
			_ = drv.Wait(ctx, opts.delay())
		}
	}

	if err := login(ctx, drv, rec, creds, opts); err != nil {
		return rec.Fail(err)
	}

	if visitSection(ctx, drv, rec, "https://www.tiktok.com/setting", "settings hub", opts) {
		expandAll(ctx, drv, rec, `[data-e2e="settings-expand"]`, "settings", opts)
	}

	if visitSection(ctx, drv, rec, "https://www.tiktok.com/setting/digital-wellbeing", "digital wellbeing", opts) {
		probeToggle(ctx, drv, rec, "Restricted Mode", RuleContentFiltering,
			`[data-e2e="restricted-mode-toggle"]`,
			`input[type="checkbox"]`,
		)
		probeToggle(ctx, drv, rec, "Daily screen time limit", RuleScreenTime,
			`[data-e2e="screen-time-toggle"]`,
			`input[type="checkbox"]`,
		)
	}

	if visitSection(ctx, drv, rec, "https://www.tiktok.com/setting/privacy", "privacy settings", opts) {
		probeToggle(ctx, drv, rec, "Private account", RulePrivacy,
			`[data-e2e="private-account-toggle"]`,
			`input[type="checkbox"]`,
		)
		probeToggle(ctx, drv, rec, "Direct message restrictions", RuleCommunicationLimits,
			`[data-e2e="dm-settings-select"]`,
			`select`,
		)
	}

	rec.Capability(models.CapabilityEntry{
		Name:         "Family Pairing",
		Description:  "Parent device linked via QR code controls teen settings remotely",
		RuleCategory: RuleMonitoring,
		Automatable:  false,
		Options:      []string{"Screen time", "Restricted Mode", "Search", "Discoverability"},
	})
	rec.Note("Family Pairing setup is app-only; the web surface documents but cannot link devices")

	rec.AgeGating("family-pairing")
	return rec.Complete()
}
