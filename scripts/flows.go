package scripts

import (
	"context"
	"fmt"

	"platform-research/models"
	"platform-research/session"
)

// Common selector cascades shared by the generic fallback and several
// platform flows. Tried in order; first hit wins.
var (
	emailFieldSelectors = []string{
		`input[type="email"]`,
		`input[name="email"]`,
		`input[name="userLoginId"]`,
		`input[name="username"]`,
		`input[id*="email"]`,
	}
	passwordFieldSelectors = []string{
		`input[type="password"]`,
		`input[name="password"]`,
	}
	submitSelectors = []string{
		`button[type="submit"]`,
		`input[type="submit"]`,
		`button[data-uia="login-submit-button"]`,
		`form button`,
	}
)

// maxExpand bounds expand-affordance loops so a pathological page can never
// spin a script forever.
const maxExpand = 8

// login performs the credential entry flow on the current page. A login
// failure is the one platform-fatal condition: the caller converts the error
// into a status:"error" result.
func login(ctx context.Context, drv session.Driver, rec *Recorder, creds *models.Credentials, opts Options) error {
	emailSel, ok := session.FirstMatch(ctx, drv, emailFieldSelectors...)
	if !ok {
		return fmt.Errorf("login form not found: no email field matched")
	}
	if err := drv.Fill(ctx, emailSel, creds.Email); err != nil {
		return fmt.Errorf("enter email: %w", err)
	}
	rec.Step("fill", "Entered account email")

	passSel, hasPass := session.FirstMatch(ctx, drv, passwordFieldSelectors...)
	if !hasPass {
		// Some providers ask for the email first and reveal the password
		// field after a continue click.
		if sel, ok := session.FirstMatch(ctx, drv, submitSelectors...); ok {
			if err := drv.Click(ctx, sel); err != nil {
				return fmt.Errorf("continue past email step: %w", err)
			}
			_ = drv.Wait(ctx, opts.delay())
			passSel, hasPass = session.FirstMatch(ctx, drv, passwordFieldSelectors...)
		}
	}
	if !hasPass {
		return fmt.Errorf("login form not found: no password field matched")
	}
	if err := drv.Fill(ctx, passSel, creds.Password); err != nil {
		return fmt.Errorf("enter password: %w", err)
	}
	rec.Step("fill", "Entered account password")

	submitSel, ok := session.FirstMatch(ctx, drv, submitSelectors...)
	if !ok {
		return fmt.Errorf("login submit control not found")
	}
	if err := drv.Click(ctx, submitSel); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}
	rec.Step("click", "Submitted login form")
	_ = drv.Wait(ctx, opts.delay())

	// Still on a password field after submitting usually means rejection.
	if onPass, _ := drv.Exists(ctx, passSel); onPass {
		if visible, _ := drv.Exists(ctx, `[data-uia*="error"], .error, [role="alert"]`); visible {
			return fmt.Errorf("login rejected by platform")
		}
	}
	return nil
}

// passwordGate detects and clears a re-authentication prompt. Some platforms
// ask for the password again when entering a sensitive settings sub-page;
// this can happen after any protected navigation, so scripts call it before
// each one. Never fatal: if the gate cannot be cleared the step degrades.
func passwordGate(ctx context.Context, drv session.Driver, rec *Recorder, password string, opts Options) {
	sel, ok := session.FirstMatch(ctx, drv, passwordFieldSelectors...)
	if !ok {
		return
	}
	rec.Step("detect", "Password re-authentication gate detected")
	if err := drv.Fill(ctx, sel, password); err != nil {
		rec.Errorf("password gate: fill: %v", err)
		return
	}
	submitSel, ok := session.FirstMatch(ctx, drv, submitSelectors...)
	if !ok {
		rec.Errorf("password gate: no submit control found")
		return
	}
	if err := drv.Click(ctx, submitSel); err != nil {
		rec.Errorf("password gate: submit: %v", err)
		return
	}
	rec.Step("click", "Cleared password re-authentication gate")
	_ = drv.Wait(ctx, opts.delay())
}

// visitSection navigates to a settings area, waits out the transition, and
// captures a screenshot. A navigation failure is recoverable; the script
// moves on to the next section.
func visitSection(ctx context.Context, drv session.Driver, rec *Recorder, url, label string, opts Options) bool {
	if err := drv.Navigate(ctx, url); err != nil {
		rec.Errorf("open %s: %v", label, err)
		return false
	}
	rec.Step("navigate", "Opened %s", label)
	_ = drv.Wait(ctx, opts.delay())
	rec.Screenshot(ctx, drv, label)
	return true
}

// expandAll clicks an expand affordance repeatedly, up to maxExpand times,
// screenshotting after each expansion so collapsed settings get documented.
func expandAll(ctx context.Context, drv session.Driver, rec *Recorder, selector, label string, opts Options) int {
	expanded := 0
	for i := 0; i < maxExpand; i++ {
		ok, err := drv.Exists(ctx, selector)
		if err != nil || !ok {
			break
		}
		if err := drv.Click(ctx, selector); err != nil {
			rec.Errorf("expand %s: %v", label, err)
			break
		}
		expanded++
		_ = drv.Wait(ctx, opts.delay())
	}
	if expanded > 0 {
		rec.Step("click", "Expanded %d %s section(s)", expanded, label)
		rec.Screenshot(ctx, drv, label+" expanded")
	}
	return expanded
}

// probeToggle looks for a toggle/slider control in a section and records
// whether the setting appears automatable through the web UI.
func probeToggle(ctx context.Context, drv session.Driver, rec *Recorder, name, category string, selectors ...string) {
	sel, ok := session.FirstMatch(ctx, drv, selectors...)
	if !ok {
		rec.Errorf("%s: no toggle control found", name)
		rec.Capability(models.CapabilityEntry{
			Name:         name,
			Description:  name + " (documented, control not reachable from web UI)",
			RuleCategory: category,
			Automatable:  false,
		})
		return
	}
	rec.Capability(models.CapabilityEntry{
		Name:             name,
		Description:      name + " toggle present in settings UI",
		RuleCategory:     category,
		Automatable:      true,
		AutomationMethod: "browser:" + sel,
	})
}
