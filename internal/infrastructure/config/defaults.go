package config

import "time"

// SetDefaults fills in any field left unset by file/env sources.
func SetDefaults(cfg *Config) {
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = "https://www.wsdot.wa.gov/ferries/api"
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 8 * time.Second
	}
	if cfg.Upstream.RateLimit.RequestsPerSecond == 0 {
		cfg.Upstream.RateLimit.RequestsPerSecond = 5
	}
	if cfg.Upstream.RateLimit.Burst == 0 {
		cfg.Upstream.RateLimit.Burst = 5
	}
	if cfg.Upstream.Retry.MaxAttempts == 0 {
		cfg.Upstream.Retry.MaxAttempts = 2
	}
	if cfg.Upstream.Retry.Backoff == 0 {
		cfg.Upstream.Retry.Backoff = 500 * time.Millisecond
	}
	if cfg.Upstream.Circuit.FailureThreshold == 0 {
		cfg.Upstream.Circuit.FailureThreshold = 5
	}
	if cfg.Upstream.Circuit.OpenTimeout == 0 {
		cfg.Upstream.Circuit.OpenTimeout = 60 * time.Second
	}

	if cfg.Cache.LaneTTL == 0 {
		cfg.Cache.LaneTTL = 10 * time.Minute
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = "localhost:8080"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}
