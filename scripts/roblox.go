package scripts

import (
	"context"
	"fmt"

	"platform-research/models"
	"platform-research/registry"
	"platform-research/session"
)

// robloxScript documents Roblox's parental controls: the account PIN,
// allowed-experiences maturity level, chat restrictions, and spend controls.
type robloxScript struct{}

func (robloxScript) Research(ctx context.Context, drv session.Driver, p registry.Platform, creds *models.Credentials, opts Options) *models.PlatformResearchResult {
	rec := NewRecorder(p, opts)
	if creds == nil {
		return rec.Fail(fmt.Errorf("roblox requires credentials"))
	}

	if err := drv.Navigate(ctx, p.LoginURL); err != nil {
		return rec.Fail(fmt.Errorf("open login page: %w", err))
	}
	rec.Step("navigate", "Opened Roblox login page")
	_ = drv.Wait(ctx, opts.delay())
	rec.Screenshot(ctx, drv, "login page")

	if err := login(ctx, drv, rec, creds, opts); err != nil {
		return rec.Fail(err)
	}

	if visitSection(ctx, drv, rec, "https://www.roblox.com/my/account#!/parental-controls", "parental controls", opts) {
		// The parental-controls tab re-prompts for the PIN/password on
		// accounts that have one set.
		passwordGate(ctx, drv, rec, creds.Password, opts)

		probeToggle(ctx, drv, rec, "Account PIN", RulePrivacy,
			`#pin-toggle`,
			`[data-testid="account-pin-toggle"]`,
			`input[type="checkbox"]`,
		)
		probeToggle(ctx, drv, rec, "Allowed experiences maturity level", RuleContentFiltering,
			`[data-testid="maturity-level-select"]`,
			`select[name="allowedExperiences"]`,
		)
		probeToggle(ctx, drv, rec, "Spend restrictions", RulePurchaseControls,
			`[data-testid="spend-restrictions-toggle"]`,
			`input[type="checkbox"]`,
		)
	}

	if visitSection(ctx, drv, rec, "https://www.roblox.com/my/account#!/privacy", "privacy settings", opts) {
		probeToggle(ctx, drv, rec, "Chat restrictions", RuleCommunicationLimits,
			`[data-testid="chat-settings-select"]`,
			`select[name="whoCanChatWithMe"]`,
		)
		probeToggle(ctx, drv, rec, "Private server join restrictions", RuleCommunicationLimits,
			`select[name="whoCanJoinMe"]`,
		)
	}

	if visitSection(ctx, drv, rec, "https://www.roblox.com/my/account#!/screentime", "screen time", opts) {
		probeToggle(ctx, drv, rec, "Daily screen time limit", RuleScreenTime,
			`[data-testid="screentime-limit-select"]`,
			`input[type="range"]`,
		)
	}

	rec.Capability(models.CapabilityEntry{
		Name:         "Spending notifications",
		Description:  "Email notifications for Robux spending",
		RuleCategory: RuleMonitoring,
		Automatable:  false,
	})

	rec.AgeGating("pin")
	return rec.Complete()
}
