// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// DefaultLanguage is the language assumed when a request does not name one.
const DefaultLanguage = "it"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// Database. When DBHost is set the server connects to MySQL using the
	// connection parameters below; otherwise it opens the SQLite file at
	// DBPath. SQLite is the development and test default.
	DBPath     string `env:"VM_DB_PATH" envDefault:"./data/vmsite.db"`
	DBHost     string `env:"VM_DB_HOST"`
	DBPort     int    `env:"VM_DB_PORT" envDefault:"3306"`
	DBUser     string `env:"VM_DB_USER"`
	DBPassword string `env:"VM_DB_PASSWORD"`
	DBName     string `env:"VM_DB_NAME"`

	ServerHost string `env:"VM_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"VM_SERVER_PORT" envDefault:"8080"`
	BaseURL    string `env:"VM_BASE_URL" envDefault:"http://localhost:8080"`
	Env        string `env:"VM_ENV" envDefault:"development"`
	LogLevel   string `env:"VM_LOG_LEVEL" envDefault:"info"`

	// Identity provider (Logto-compatible OIDC endpoint).
	LogtoEndpoint  string `env:"VM_LOGTO_ENDPOINT"`
	LogtoAppID     string `env:"VM_LOGTO_APP_ID"`
	LogtoAppSecret string `env:"VM_LOGTO_APP_SECRET"`

	// Mailgun. When incomplete, the contact notification mail is skipped;
	// submissions are stored regardless.
	MailgunAPIKey   string `env:"VM_MAILGUN_API_KEY"`
	MailgunDomain   string `env:"VM_MAILGUN_DOMAIN"`
	MailgunFrom     string `env:"VM_MAILGUN_FROM_EMAIL" envDefault:"noreply@victorianmonkey.it"`
	MailgunFromName string `env:"VM_MAILGUN_FROM_NAME" envDefault:"Victorian Monkey"`
	MailgunTo       string `env:"VM_MAILGUN_TO_EMAIL"`

	// Cloudflare Turnstile. When the secret is empty, token verification is
	// skipped on the contact form and /api/turnstile/verify reports the
	// missing configuration.
	TurnstileSecretKey string `env:"VM_TURNSTILE_SECRET_KEY"`

	// Cache configuration.
	RedisURL    string `env:"VM_REDIS_URL"`
	CacheTTL    int    `env:"VM_CACHE_TTL" envDefault:"3600"`
	CachePrefix string `env:"VM_CACHE_PREFIX" envDefault:"vmsite:"`

	// Per-IP rate limit for public contact submissions, requests per minute.
	SubmitRateLimit int `env:"VM_SUBMIT_RATE_LIMIT" envDefault:"5"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseMySQL returns true if MySQL connection parameters are configured.
func (c Config) UseMySQL() bool {
	return c.DBHost != ""
}

// MySQLDSN returns the MySQL data source name built from the connection
// parameters. Only meaningful when UseMySQL is true.
func (c Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MailEnabled returns true if the Mailgun integration is fully configured.
func (c Config) MailEnabled() bool {
	return c.MailgunAPIKey != "" && c.MailgunDomain != "" && c.NotifyAddress() != ""
}

// NotifyAddress returns the address contact notifications are sent to.
func (c Config) NotifyAddress() string {
	if c.MailgunTo != "" {
		return c.MailgunTo
	}
	return c.MailgunFrom
}

// TurnstileEnabled returns true if Turnstile verification is configured.
func (c Config) TurnstileEnabled() bool {
	return c.TurnstileSecretKey != ""
}

// AuthEnabled returns true if the identity provider is configured. Without
// it every mutating endpoint rejects requests as unauthorized.
func (c Config) AuthEnabled() bool {
	return c.LogtoEndpoint != "" && c.LogtoAppID != "" && c.LogtoAppSecret != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.UseMySQL() && (cfg.DBUser == "" || cfg.DBName == "") {
		return nil, fmt.Errorf("VM_DB_HOST is set but VM_DB_USER or VM_DB_NAME is missing")
	}

	return cfg, nil
}
