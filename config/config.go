// Package config loads the scheduled worker's environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the worker's environment-derived settings.
type Config struct {
	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string
	// ServiceRoleKey is the backend service credential (a JWT). Optional;
	// when present it is sanity-checked at startup.
	ServiceRoleKey string
	// RunID optionally attaches results to a pre-existing run record,
	// used when a batch is triggered from the API rather than a scheduler.
	RunID string
	// SlackWebhookURL enables the batch summary notification when set.
	SlackWebhookURL string
}

// Load reads the environment (a local .env is merged in when present) and
// fails fast on anything that would doom the run later.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ServiceRoleKey:  os.Getenv("SERVICE_ROLE_KEY"),
		RunID:           os.Getenv("RESEARCH_RUN_ID"),
		SlackWebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.ServiceRoleKey != "" {
		if err := checkServiceKey(cfg.ServiceRoleKey); err != nil {
			return nil, fmt.Errorf("SERVICE_ROLE_KEY: %w", err)
		}
	}
	return cfg, nil
}

// checkServiceKey decodes the service credential without verifying its
// signature (the backend does that) to catch expired or mis-scoped keys
// before a whole batch runs against a dead credential.
func checkServiceKey(key string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return fmt.Errorf("not a parseable JWT: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err == nil && exp != nil && exp.Before(time.Now()) {
		return fmt.Errorf("key expired at %s", exp.Time.Format(time.RFC3339))
	}

	if role, ok := claims["role"].(string); ok && role != "service_role" {
		logrus.Warnf("service key has role %q, expected service_role", role)
	}
	return nil
}
