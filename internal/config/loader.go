package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies TAPEBOARD_* environment variable overrides, and
// returns the final Config. A missing file is not an error: defaults plus
// environment overrides make a complete configuration. The returned Config
// has NOT been validated; the caller should invoke Config.Validate() after
// Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known TAPEBOARD_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators inject secrets at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Feed ──
	setStr(&cfg.Feed.DataHost, "TAPEBOARD_FEED_DATA_HOST")
	setStr(&cfg.Feed.GammaHost, "TAPEBOARD_FEED_GAMMA_HOST")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "TAPEBOARD_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "TAPEBOARD_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "TAPEBOARD_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "TAPEBOARD_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "TAPEBOARD_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "TAPEBOARD_REDIS_TLS_ENABLED")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "TAPEBOARD_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "TAPEBOARD_S3_REGION")
	setStr(&cfg.S3.Bucket, "TAPEBOARD_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "TAPEBOARD_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "TAPEBOARD_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "TAPEBOARD_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "TAPEBOARD_S3_FORCE_PATH_STYLE")

	// ── Server ──
	setInt(&cfg.Server.Port, "TAPEBOARD_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "TAPEBOARD_SERVER_CORS_ORIGINS")

	// ── Top-level ──
	setStr(&cfg.Mode, "TAPEBOARD_MODE")
	setStr(&cfg.LogLevel, "TAPEBOARD_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
