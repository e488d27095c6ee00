// Package config defines the top-level configuration for tapeboard and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by TAPEBOARD_* environment
// variables.
type Config struct {
	Feed     FeedConfig   `toml:"feed"`
	Redis    RedisConfig  `toml:"redis"`
	S3       S3Config     `toml:"s3"`
	Server   ServerConfig `toml:"server"`
	Mode     string       `toml:"mode"`
	LogLevel string       `toml:"log_level"`
}

// FeedConfig holds the Polymarket public endpoint hosts.
type FeedConfig struct {
	DataHost  string `toml:"data_host"`
	GammaHost string `toml:"gamma_host"`
}

// RedisConfig holds Redis connection parameters. An empty Addr selects the
// in-memory stores instead.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for CSV exports.
// An empty Bucket disables exports.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Feed: FeedConfig{
			DataHost:  "https://data-api.polymarket.com",
			GammaHost: "https://gamma-api.polymarket.com",
		},
		Redis: RedisConfig{
			Addr:       "",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		S3: S3Config{
			Endpoint:       "",
			Region:         "us-east-1",
			Bucket:         "",
			UseSSL:         true,
			ForcePathStyle: true,
		},
		Server: ServerConfig{
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Mode:     "serve",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"serve": true,
	"proxy": true,
	"tape":  true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: serve, proxy, tape)", c.Mode))
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Feed.DataHost == "" {
		errs = append(errs, "feed: data_host must not be empty")
	}
	if c.Feed.GammaHost == "" {
		errs = append(errs, "feed: gamma_host must not be empty")
	}

	if c.Redis.Addr != "" && c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// S3 is optional, but a configured bucket needs the rest of the block.
	if c.S3.Bucket != "" {
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty when bucket is set")
		}
		if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			errs = append(errs, "s3: access_key and secret_key are required when bucket is set")
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
