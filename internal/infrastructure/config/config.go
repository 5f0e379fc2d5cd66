// Package config loads process configuration from environment variables,
// an optional config file, and defaults, mirroring the layered
// viper+godotenv approach the upstream client and CLI both depend on.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the top-level configuration struct.
type Config struct {
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// LoadConfig loads configuration with priority env vars > config file >
// defaults. configPath may be empty, in which case ./config.yaml,
// ./configs/config.yaml and /etc/dotstated/config.yaml are tried. A config
// file that does not exist is skipped.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/dotstated")
	}

	v.SetEnvPrefix("FERRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper already knows, so each field is bound
	// to its FERRY_-prefixed environment variable explicitly.
	for _, key := range []string{
		"upstream.base_url", "upstream.access_code", "upstream.timeout",
		"upstream.rate_limit.requests_per_second", "upstream.rate_limit.burst",
		"upstream.retry.max_attempts", "upstream.retry.backoff",
		"upstream.circuit.failure_threshold", "upstream.circuit.open_timeout",
		"cache.lane_ttl", "server.address", "logging.level", "logging.format",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// MustLoadConfig loads configuration and panics on error, for use in
// cmd/dotstated's wiring where a bad config is fatal at startup.
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
