package config

import "time"

// UpstreamConfig holds the ferry operations API client configuration.
type UpstreamConfig struct {
	BaseURL    string          `mapstructure:"base_url" validate:"required,url"`
	AccessCode string          `mapstructure:"access_code" validate:"required"`
	Timeout    time.Duration   `mapstructure:"timeout" validate:"required"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Retry      RetryConfig     `mapstructure:"retry"`
	Circuit    CircuitConfig   `mapstructure:"circuit"`
}

// RateLimitConfig holds per-feed token-bucket settings. The CLI wiring does
// not pass them to the upstream client, which always allows 5 requests per
// second with a burst of 5 per feed.
type RateLimitConfig struct {
	RequestsPerSecond int `mapstructure:"requests_per_second" validate:"min=1"`
	Burst             int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds retry configuration for transient upstream failures.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=1"`
	Backoff     time.Duration `mapstructure:"backoff"`
}

// CircuitConfig holds per-feed circuit breaker thresholds. The CLI wiring
// does not pass them to the upstream client, whose breakers always open
// after 5 consecutive failures and half-open after 60 seconds.
type CircuitConfig struct {
	FailureThreshold int           `mapstructure:"failure_threshold" validate:"min=1"`
	OpenTimeout      time.Duration `mapstructure:"open_timeout"`
}

// CacheConfig holds TTLs for the last-good lane and capacity caches.
type CacheConfig struct {
	LaneTTL time.Duration `mapstructure:"lane_ttl"`
}

// ServerConfig holds a listen address. No subcommand reads it: serve is a
// poll loop with no listener.
type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

// LoggingConfig mirrors the teacher's logging config shape.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}
