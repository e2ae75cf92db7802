package scripts

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platform-research/models"
)

func TestLookupFallsBackToGeneric(t *testing.T) {
	assert.IsType(t, netflixScript{}, Lookup("netflix"))
	assert.IsType(t, GenericScript{}, Lookup("snapchat"))
	assert.IsType(t, GenericScript{}, Lookup("never-heard-of-it"))

	assert.True(t, Has("netflix"))
	assert.False(t, Has("snapchat"))
}

func TestNetflixHappyPath(t *testing.T) {
	drv := newStubDriver()
	opts := testOptions(t)
	creds := &models.Credentials{Email: "parent@example.com", Password: "hunter2"}

	res := Lookup("netflix").Research(context.Background(), drv, testPlatform(), creds, opts)

	require.Equal(t, models.StatusCompleted, res.Status)
	assert.Empty(t, res.Errors)
	assert.GreaterOrEqual(t, len(res.Screenshots), 5)
	assert.NotEmpty(t, res.Steps)

	require.NotNil(t, res.Assessment)
	assert.GreaterOrEqual(t, res.Assessment.ProtectionRating, 0.0)
	assert.LessOrEqual(t, res.Assessment.ProtectionRating, 10.0)
	assert.Equal(t, "maturity-rating", res.Assessment.AgeGating)
	assert.Contains(t, res.Assessment.Gaps, RulePurchaseControls)
	assert.Contains(t, res.Assessment.Gaps, RuleCommunicationLimits)

	// Credentials were typed into the page, never into the result record.
	assert.Contains(t, drv.filled, `input[type="email"]`)
	assert.NotContains(t, res.Notes, "hunter2")
	for _, e := range res.Errors {
		assert.NotContains(t, e, "hunter2")
	}
}

func TestNetflixLoginRejectedIsFatal(t *testing.T) {
	drv := newStubDriver()
	// Everything matches, including the error banner after submit.
	drv.exists = func(string) bool { return true }

	res := Lookup("netflix").Research(context.Background(), drv, testPlatform(),
		&models.Credentials{Email: "parent@example.com", Password: "wrong"}, testOptions(t))

	assert.Equal(t, models.StatusError, res.Status)
	assert.Nil(t, res.Assessment)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[len(res.Errors)-1], "login rejected")

	// Partial evidence collected before the failure survives.
	assert.NotEmpty(t, res.Screenshots)
	assert.NotEmpty(t, res.Steps)
}

func TestNetflixWithoutCredentialsFails(t *testing.T) {
	res := Lookup("netflix").Research(context.Background(), newStubDriver(), testPlatform(), nil, testOptions(t))
	assert.Equal(t, models.StatusError, res.Status)
}

func TestLoginHandlesTwoStepForm(t *testing.T) {
	drv := newStubDriver()
	// Password field appears only after the continue click.
	drv.exists = func(sel string) bool {
		if strings.Contains(sel, "password") {
			return len(drv.clicked) > 0 && len(drv.clicked) < 2
		}
		if strings.Contains(sel, "error") || strings.Contains(sel, "alert") {
			return false
		}
		return true
	}

	rec := NewRecorder(testPlatform(), testOptions(t))
	err := login(context.Background(), drv, rec, &models.Credentials{Email: "a@b.c", Password: "pw"}, testOptions(t))

	require.NoError(t, err)
	assert.Equal(t, "pw", drv.filled[`input[type="password"]`])
	assert.Len(t, drv.clicked, 2) // continue, then submit
}

func TestLoginMissingFormIsError(t *testing.T) {
	drv := newStubDriver()
	drv.exists = func(string) bool { return false }

	rec := NewRecorder(testPlatform(), testOptions(t))
	err := login(context.Background(), drv, rec, &models.Credentials{Email: "a@b.c", Password: "pw"}, testOptions(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login form not found")
}

func TestGenericUnreachablePlatformStillCompletes(t *testing.T) {
	drv := newStubDriver()
	drv.failNav = true

	res := GenericScript{}.Research(context.Background(), drv, testPlatform(),
		&models.Credentials{Email: "a@b.c", Password: "pw"}, testOptions(t))

	assert.Equal(t, models.StatusCompleted, res.Status)
	assert.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Notes, "low-confidence")
}

type panickingDriver struct{ *stubDriver }

func (panickingDriver) Navigate(context.Context, string) error { panic("backend exploded") }

func TestGenericRecoversFromPanic(t *testing.T) {
	drv := panickingDriver{newStubDriver()}

	res := GenericScript{}.Research(context.Background(), drv, testPlatform(), nil, testOptions(t))

	require.NotNil(t, res)
	assert.Equal(t, models.StatusCompleted, res.Status)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "backend exploded")
}

func TestGenericNoURLsConfigured(t *testing.T) {
	p := testPlatform()
	p.LoginURL, p.WebsiteURL = "", ""

	res := GenericScript{}.Research(context.Background(), newStubDriver(), p, nil, testOptions(t))
	assert.Equal(t, models.StatusCompleted, res.Status)
	assert.Contains(t, res.Notes, "nothing to research")
}

func TestIOSScreenTimeNeedsNoCredentials(t *testing.T) {
	p := testPlatform()
	p.ID, p.Name = "ios-screentime", "iOS Screen Time"
	p.EmailKey, p.PasswordKey = "", ""
	p.WebsiteURL = "https://support.apple.com/en-us/HT208982"

	res := Lookup("ios-screentime").Research(context.Background(), newStubDriver(), p, nil, testOptions(t))

	require.Equal(t, models.StatusCompleted, res.Status)
	assert.NotEmpty(t, res.Capabilities)
	require.NotNil(t, res.Assessment)
	assert.Equal(t, "passcode", res.Assessment.AgeGating)
}
