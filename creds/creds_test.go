package creds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platform-research/registry"
)

func writeCredsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := writeCredsFile(t, `
# research account credentials
NETFLIX_EMAIL=parent@example.com
NETFLIX_PASSWORD = "hunter2"

this line has no equals sign
=value-without-key
TIKTOK_EMAIL='quoted@example.com'
`)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, m, 3)
	assert.Equal(t, "parent@example.com", m["NETFLIX_EMAIL"])
	assert.Equal(t, "hunter2", m["NETFLIX_PASSWORD"], "quotes and whitespace stripped")
	assert.Equal(t, "quoted@example.com", m["TIKTOK_EMAIL"])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
}

func TestConfigured(t *testing.T) {
	netflix := registry.Platform{ID: "netflix", EmailKey: "NETFLIX_EMAIL", PasswordKey: "NETFLIX_PASSWORD"}
	device := registry.Platform{ID: "ios-screentime"}

	m := Map{"NETFLIX_EMAIL": "parent@example.com"}
	assert.False(t, m.Configured(netflix), "password missing")
	assert.True(t, m.Configured(device), "device platforms need no login")

	m["NETFLIX_PASSWORD"] = "hunter2"
	assert.True(t, m.Configured(netflix))

	m["NETFLIX_PASSWORD"] = ""
	assert.False(t, m.Configured(netflix), "empty value is not configured")
}

func TestResolve(t *testing.T) {
	netflix := registry.Platform{ID: "netflix", EmailKey: "NETFLIX_EMAIL", PasswordKey: "NETFLIX_PASSWORD"}
	device := registry.Platform{ID: "ios-screentime"}

	m := Map{"NETFLIX_EMAIL": "parent@example.com", "NETFLIX_PASSWORD": "hunter2"}

	c := m.Resolve(netflix)
	require.NotNil(t, c)
	assert.Equal(t, "parent@example.com", c.Email)
	assert.Equal(t, "hunter2", c.Password)

	assert.Nil(t, m.Resolve(device))
	assert.Nil(t, Map{}.Resolve(netflix))
}
