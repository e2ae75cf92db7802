package config

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedKey(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	key, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return key
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SERVICE_ROLE_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadAcceptsValidServiceKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/research")
	t.Setenv("SERVICE_ROLE_KEY", signedKey(t, jwt.MapClaims{
		"role": "service_role",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}))
	t.Setenv("RESEARCH_RUN_ID", "run-7")
	t.Setenv("SLACK_WEBHOOK_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/research", cfg.DatabaseURL)
	assert.Equal(t, "run-7", cfg.RunID)
}

func TestLoadRejectsExpiredServiceKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/research")
	t.Setenv("SERVICE_ROLE_KEY", signedKey(t, jwt.MapClaims{
		"role": "service_role",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestLoadRejectsGarbageServiceKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/research")
	t.Setenv("SERVICE_ROLE_KEY", "not-a-jwt")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVICE_ROLE_KEY")
}
