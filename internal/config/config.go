// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from environment
// variables. All middleware and collaborator settings flow from the
// Config object handed to gateway construction; nothing is ambient.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"MERKEZ_DB_PATH" envDefault:"./data/merkez.db"`
	ServerHost string `env:"MERKEZ_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"MERKEZ_SERVER_PORT" envDefault:"5555"`
	Env        string `env:"MERKEZ_ENV" envDefault:"development"`
	LogLevel   string `env:"MERKEZ_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"MERKEZ_UPLOADS_DIR" envDefault:"./uploads"`

	// CORSOrigins is the allow-list for cross-origin requests.
	CORSOrigins []string `env:"MERKEZ_CORS_ORIGINS" envSeparator:","`

	// Contact-message policy. Deployments differ on both, so they are
	// configuration rather than hardcoded behavior.
	MessageValidateEmail bool `env:"MERKEZ_MESSAGE_VALIDATE_EMAIL" envDefault:"false"`
	MessageRequireAuth   bool `env:"MERKEZ_MESSAGE_REQUIRE_AUTH" envDefault:"false"`

	// Event-log retention, in days.
	EventRetentionDays int `env:"MERKEZ_EVENT_RETENTION_DAYS" envDefault:"90"`

	// SMTP settings for contact-message notifications. Notifications are
	// disabled when SMTPHost is empty.
	SMTPHost     string `env:"MERKEZ_SMTP_HOST"`
	SMTPPort     int    `env:"MERKEZ_SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"MERKEZ_SMTP_USER"`
	SMTPPassword string `env:"MERKEZ_SMTP_PASSWORD"`
	MailFrom     string `env:"MERKEZ_MAIL_FROM"`
	MailTo       string `env:"MERKEZ_MAIL_TO"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MailEnabled returns true if outbound mail notification is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.MailFrom != "" && c.MailTo != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("MERKEZ_SERVER_PORT out of range: %d", cfg.ServerPort)
	}
	if cfg.EventRetentionDays < 1 {
		return nil, fmt.Errorf("MERKEZ_EVENT_RETENTION_DAYS must be positive, got %d", cfg.EventRetentionDays)
	}

	return cfg, nil
}
