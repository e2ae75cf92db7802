// Package creds resolves platform login credentials from a local KEY=value
// file. Credentials stay in memory for the lifetime of one invocation and are
// never written anywhere.
package creds

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"platform-research/models"
	"platform-research/registry"
)

// Map holds the parsed credential entries.
type Map map[string]string

// Load parses a credentials file. The parser is deliberately forgiving:
// blank lines, #-comments, and lines without '=' are skipped without error.
// Only an unreadable file is reported.
func Load(path string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open credentials file: %w", err)
	}
	defer f.Close()

	m := make(Map)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		m[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return m, nil
}

// Configured reports whether a platform can be researched with the loaded
// credentials: both its keys present and non-empty, or no login required.
func (m Map) Configured(p registry.Platform) bool {
	if !p.RequiresLogin() {
		return true
	}
	return m[p.EmailKey] != "" && m[p.PasswordKey] != ""
}

// Resolve returns the credentials for a platform, or nil when the platform
// needs no login or is not configured. Callers gate on Configured first.
func (m Map) Resolve(p registry.Platform) *models.Credentials {
	if !p.RequiresLogin() {
		return nil
	}
	email, password := m[p.EmailKey], m[p.PasswordKey]
	if email == "" || password == "" {
		return nil
	}
	return &models.Credentials{Email: email, Password: password}
}
