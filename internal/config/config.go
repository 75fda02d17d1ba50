// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// schemeRegex matches a valid URI scheme (RFC 3986 section 3.1).
var schemeRegex = regexp.MustCompile(`^[a-z][a-z0-9+.-]*$`)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Deep link addressing. AppScheme is the custom scheme the app
	// registers (e.g. acp://), UniversalHost the https host that serves
	// the same routes, WebAppURL the browser fallback for /l/* links.
	AppScheme     string `env:"APP_SCHEME" envDefault:"acp"`
	UniversalHost string `env:"UNIVERSAL_HOST" envDefault:"links.acp.dev"`
	WebAppURL     string `env:"WEB_APP_URL" envDefault:"https://app.acp.dev"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Analytics event buffer capacity
	AnalyticsCapacity int `env:"ANALYTICS_CAPACITY" envDefault:"100"`

	// Prefetch cache TTL
	PrefetchTTL time.Duration `env:"PREFETCH_TTL" envDefault:"5m"`

	// Cache warmer
	WarmupEnabled  bool          `env:"WARMUP_ENABLED" envDefault:"true"`
	WarmupInterval time.Duration `env:"WARMUP_INTERVAL" envDefault:"1m"`
	WarmupSessions int           `env:"WARMUP_SESSIONS" envDefault:"10"`

	// Rate limiting
	RateLimitAPIEnabled      bool `env:"RATE_LIMIT_API_ENABLED" envDefault:"true"`
	RateLimitFallbackEnabled bool `env:"RATE_LIMIT_FALLBACK_ENABLED" envDefault:"true"`
	RateLimitFallbackRPS     int  `env:"RATE_LIMIT_FALLBACK_RPS" envDefault:"100"`
	RateLimitFallbackBurst   int  `env:"RATE_LIMIT_FALLBACK_BURST" envDefault:"20"`

	// App association served under /.well-known for universal link
	// verification. AppleAppID is TEAMID.bundleID; fingerprints are
	// comma-separated SHA-256 cert digests.
	AppleAppID              string `env:"APPLE_APP_ID" envDefault:""`
	AndroidPackage          string `env:"ANDROID_PACKAGE" envDefault:""`
	AndroidCertFingerprints string `env:"ANDROID_CERT_FINGERPRINTS" envDefault:""`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	return splitCommaList(c.CORSAllowedOrigins)
}

// GetAndroidCertFingerprints parses the comma-separated fingerprint string into a slice.
func (c *Config) GetAndroidCertFingerprints() []string {
	return splitCommaList(c.AndroidCertFingerprints)
}

// Validate checks configuration consistency beyond what env parsing enforces.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.AppEnv, validation.Required, validation.In("development", "staging", "production")),
		validation.Field(&c.AppPort, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.AppScheme, validation.Required, validation.Match(schemeRegex)),
		validation.Field(&c.UniversalHost, validation.Required, is.Host),
		validation.Field(&c.WebAppURL, validation.Required, is.URL),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.In("json", "text")),
		validation.Field(&c.AnalyticsCapacity, validation.Required, validation.Min(1)),
	)
}

// Load parses environment variables and returns a validated Config.
// Returns an error if required variables are missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
