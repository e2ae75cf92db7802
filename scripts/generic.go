package scripts

import (
	"context"
	"fmt"

	"platform-research/models"
	"platform-research/registry"
	"platform-research/session"
)

// GenericScript is the best-effort flow used when no dedicated script exists
// for a platform: log in if possible, then follow common settings and
// parental-control link patterns. It never lets a failure escape its own
// boundary; the worst outcome is a completed, low-confidence result with an
// explanatory note, because the runner treats a thrown failure as a harder
// class than "completed but low coverage".
type GenericScript struct{}

var (
	settingsLinkSelectors = []string{
		`a[href*="settings"]`,
		`a[href*="account"]`,
		`a[href*="preferences"]`,
		`[aria-label*="Settings"]`,
	}
	parentalLinkSelectors = []string{
		`a[href*="parental"]`,
		`a[href*="family"]`,
		`a[href*="restrictions"]`,
		`a[href*="supervision"]`,
		`a[href*="safety"]`,
	}
)

func (GenericScript) Research(ctx context.Context, drv session.Driver, p registry.Platform, creds *models.Credentials, opts Options) (result *models.PlatformResearchResult) {
	rec := NewRecorder(p, opts)
	defer func() {
		if r := recover(); r != nil {
			rec.Errorf("generic flow aborted: %v", r)
			rec.Note("Generic fallback could not complete; low-confidence result")
			result = rec.Complete()
		}
	}()

	start := p.LoginURL
	if start == "" {
		start = p.WebsiteURL
	}
	if start == "" {
		rec.Note("No URLs configured for platform; nothing to research")
		return rec.Complete()
	}

	if err := drv.Navigate(ctx, start); err != nil {
		rec.Errorf("open %s: %v", start, err)
		rec.Note("Generic fallback could not reach the platform; low-confidence result")
		return rec.Complete()
	}
	rec.Step("navigate", "Opened %s", start)
	_ = drv.Wait(ctx, opts.delay())
	rec.Screenshot(ctx, drv, "landing page")

	loggedIn := false
	if creds != nil {
		if err := login(ctx, drv, rec, creds, opts); err != nil {
			rec.Errorf("best-effort login: %v", err)
		} else {
			loggedIn = true
		}
	}

	if sel, ok := session.FirstMatch(ctx, drv, settingsLinkSelectors...); ok {
		if err := drv.Click(ctx, sel); err != nil {
			rec.Errorf("open settings: %v", err)
		} else {
			rec.Step("click", "Followed settings link %q", sel)
			_ = drv.Wait(ctx, opts.delay())
			rec.Screenshot(ctx, drv, "settings")
		}
	} else {
		rec.Errorf("no settings link matched on %s", start)
	}

	if sel, ok := session.FirstMatch(ctx, drv, parentalLinkSelectors...); ok {
		if err := drv.Click(ctx, sel); err != nil {
			rec.Errorf("open parental controls: %v", err)
		} else {
			rec.Step("click", "Followed parental-controls link %q", sel)
			_ = drv.Wait(ctx, opts.delay())
			if creds != nil {
				passwordGate(ctx, drv, rec, creds.Password, opts)
			}
			rec.Screenshot(ctx, drv, "parental controls")
			rec.Capability(models.CapabilityEntry{
				Name:         "Parental controls section",
				Description:  fmt.Sprintf("Settings area matched by %q; contents not cataloged", sel),
				RuleCategory: RuleContentFiltering,
			})
		}
	} else {
		rec.Note("No parental-controls link found with common patterns")
	}

	if !loggedIn && creds != nil {
		rec.Note("Documented without an authenticated session")
	}
	rec.Note("Generic fallback result; capability coverage is best-effort")
	return rec.Complete()
}
