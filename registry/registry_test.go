package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platform-research/models"
)

func TestBuiltinRegistry(t *testing.T) {
	r := New()
	all := r.All()

	require.NotEmpty(t, all)
	assert.Equal(t, "netflix", all[0].ID, "declaration order is part of the contract")

	p, ok := r.ByID("roblox")
	require.True(t, ok)
	assert.Equal(t, models.CategoryGaming, p.Category)
	assert.True(t, p.RequiresLogin())

	ios, ok := r.ByID("ios-screentime")
	require.True(t, ok)
	assert.False(t, ios.RequiresLogin())

	_, ok = r.ByID("myspace")
	assert.False(t, ok)
}

func TestByCategory(t *testing.T) {
	r := New()

	streaming := r.ByCategory(models.CategoryStreaming)
	require.Len(t, streaming, 3)
	assert.Equal(t, "netflix", streaming[0].ID)
	assert.Equal(t, "disneyplus", streaming[1].ID)

	assert.Len(t, r.ByCategory(models.CategoryDevice), 2)
	assert.Empty(t, r.ByCategory(models.Category("vr")))
}

func TestLoadExtensionsMergesAndOverrides(t *testing.T) {
	r := New()
	before := len(r.All())

	path := filepath.Join(t.TempDir(), "platforms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
platforms:
  - id: netflix
    name: Netflix (EU)
    category: streaming
    email_key: NETFLIX_EMAIL
    password_key: NETFLIX_PASSWORD
    login_url: https://www.netflix.com/de/login
  - id: twitch
    name: Twitch
    category: social
    email_key: TWITCH_EMAIL
    password_key: TWITCH_PASSWORD
    login_url: https://www.twitch.tv/login
  - id: ""
    name: missing id is skipped
`), 0o644))

	r.LoadExtensions(path)

	assert.Len(t, r.All(), before+1, "one new platform, one override, one skipped")

	netflix, ok := r.ByID("netflix")
	require.True(t, ok)
	assert.Equal(t, "Netflix (EU)", netflix.Name)
	assert.Equal(t, "netflix", r.All()[0].ID, "override keeps registry position")

	twitch, ok := r.ByID("twitch")
	require.True(t, ok)
	assert.Equal(t, models.CategorySocial, twitch.Category)
	assert.Equal(t, "twitch", r.All()[before].ID, "new platforms append")
}

func TestLoadExtensionsToleratesBadInput(t *testing.T) {
	r := New()
	before := r.All()

	r.LoadExtensions(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Equal(t, before, r.All())

	bad := filepath.Join(t.TempDir(), "platforms.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("platforms: [not: valid: yaml"), 0o644))
	r.LoadExtensions(bad)
	assert.Equal(t, before, r.All())
}

func TestValidCategory(t *testing.T) {
	for _, name := range []string{"streaming", "gaming", "social", "device"} {
		cat, err := ValidCategory(name)
		require.NoError(t, err)
		assert.Equal(t, models.Category(name), cat)
	}

	_, err := ValidCategory("vr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}
