// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the client configuration loaded from environment variables.
type Config struct {
	// APIURL is the portal backend origin; relative image paths returned
	// by the backend are resolved against it.
	APIURL string `env:"PORTAL_API_URL,required"`

	// StatePath is the local SQLite state database holding tokens and the
	// event log.
	StatePath string `env:"PORTAL_STATE_PATH" envDefault:"./data/portal.db"`

	// StateSecret seals stored bearer tokens at rest.
	StateSecret string `env:"PORTAL_STATE_SECRET,required"`

	LogLevel string `env:"PORTAL_LOG_LEVEL" envDefault:"info"`
	Env      string `env:"PORTAL_ENV" envDefault:"development"`

	// HTTPTimeoutSeconds bounds a single request round-trip. Requests are
	// never aborted by navigation, only by this transport-level timeout.
	HTTPTimeoutSeconds int `env:"PORTAL_HTTP_TIMEOUT" envDefault:"30"`
}

// IsDevelopment returns true if the client is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// MinStateSecretLength is the minimum required length for the state secret.
// The sealing key is derived from it and needs 32 bytes of input material.
const MinStateSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("PORTAL_API_URL must be an absolute URL, got %q", cfg.APIURL)
	}

	if len(cfg.StateSecret) < MinStateSecretLength {
		return nil, fmt.Errorf("PORTAL_STATE_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinStateSecretLength, len(cfg.StateSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.StateSecret == weak {
			return nil, fmt.Errorf("PORTAL_STATE_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.StateSecret) {
		slog.Warn("PORTAL_STATE_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character
// classes (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
