package scripts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platform-research/models"
	"platform-research/registry"
)

func testPlatform() registry.Platform {
	return registry.Platform{
		ID: "netflix", Name: "Netflix", Category: models.CategoryStreaming,
		EmailKey: "NETFLIX_EMAIL", PasswordKey: "NETFLIX_PASSWORD",
		WebsiteURL: "https://www.netflix.com",
		LoginURL:   "https://www.netflix.com/login",
	}
}

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		ScreenshotDir: t.TempDir(),
		StepDelay:     1, // nanosecond; tests should not sleep
		Researcher:    "test",
		Trigger:       models.TriggerManual,
	}
}

func TestRecorderScreenshotFilesMatchRecords(t *testing.T) {
	opts := testOptions(t)
	rec := NewRecorder(testPlatform(), opts)
	drv := newStubDriver()
	ctx := context.Background()

	rec.Screenshot(ctx, drv, "Login Page")
	rec.Screenshot(ctx, drv, "Profile Hub / Settings")
	res := rec.Complete()

	require.Len(t, res.Screenshots, 2)
	assert.Equal(t, "01-login-page.png", res.Screenshots[0].Filename)
	assert.Equal(t, "02-profile-hub-settings.png", res.Screenshots[1].Filename)

	// Every recorded filename must exist on disk, and nothing else.
	dir := filepath.Join(opts.ScreenshotDir, "netflix")
	for _, s := range res.Screenshots {
		_, err := os.Stat(filepath.Join(dir, s.Filename))
		assert.NoError(t, err, "recorded screenshot %s missing on disk", s.Filename)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(res.Screenshots))
}

func TestRecorderScreenshotDirFailureIsRecoverable(t *testing.T) {
	// Point the screenshot root at a file so the directory cannot be created.
	blocked := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	rec := NewRecorder(testPlatform(), Options{ScreenshotDir: filepath.Join(blocked, "sub")})
	rec.Screenshot(context.Background(), newStubDriver(), "login page")
	res := rec.Complete()

	assert.Equal(t, models.StatusCompleted, res.Status)
	assert.NotEmpty(t, res.Errors)
	assert.Empty(t, rec.Dir())
	// No directory means no files, so no records may claim otherwise.
	assert.Empty(t, res.Screenshots)
}

func TestRecorderFailPreservesPartialData(t *testing.T) {
	rec := NewRecorder(testPlatform(), testOptions(t))
	drv := newStubDriver()
	ctx := context.Background()

	rec.Step("navigate", "Opened login page")
	rec.Screenshot(ctx, drv, "login page")
	rec.Capability(models.CapabilityEntry{Name: "x", RuleCategory: RulePrivacy})
	res := rec.Fail(fmt.Errorf("login rejected by platform"))

	assert.Equal(t, models.StatusError, res.Status)
	assert.Nil(t, res.Assessment)
	assert.Len(t, res.Steps, 2)
	assert.Len(t, res.Screenshots, 1)
	assert.Len(t, res.Capabilities, 1)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[len(res.Errors)-1], "login rejected")
	assert.False(t, res.CompletedAt.IsZero())
}

func TestRecorderStepNumbering(t *testing.T) {
	rec := NewRecorder(testPlatform(), testOptions(t))
	rec.Step("navigate", "first")
	rec.Step("click", "second")
	res := rec.Complete()

	require.Len(t, res.Steps, 2)
	assert.Equal(t, 1, res.Steps[0].Order)
	assert.Equal(t, 2, res.Steps[1].Order)
	assert.Equal(t, -1, res.Steps[0].ScreenshotIndex)
}

func TestRecorderNotesJoined(t *testing.T) {
	rec := NewRecorder(testPlatform(), testOptions(t))
	rec.Note("first observation")
	rec.Note("second observation")
	res := rec.Complete()
	assert.Equal(t, "first observation | second observation", res.Notes)
}

func TestRecorderSkip(t *testing.T) {
	rec := NewRecorder(testPlatform(), testOptions(t))
	res := rec.Skip("no credentials")
	assert.Equal(t, models.StatusSkipped, res.Status)
	assert.Equal(t, "no credentials", res.Notes)
	assert.Nil(t, res.Assessment)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Login Page":          "login-page",
		"Profile Hub / Misc":  "profile-hub-misc",
		"  weird -- label  ":  "weird-label",
		"ALLCAPS":             "allcaps",
		"日本語 only":            "only",
		"!!!":                 "page",
		"maturity rating 123": "maturity-rating-123",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugify(in), "slugify(%q)", in)
	}
}
