package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings. Values come from an optional YAML file named by
// CONFIG_FILE, then environment variables, then defaults.
type Config struct {
	AppEnv   string `yaml:"app_env"`
	HTTPAddr string `yaml:"http_addr"`

	DBDriver   string `yaml:"db_driver"` // postgres | sqlite
	PGHost     string `yaml:"pg_host"`
	PGPort     string `yaml:"pg_port"`
	PGUser     string `yaml:"pg_user"`
	PGDB       string `yaml:"pg_db"`
	PGPassword string `yaml:"pg_password"`
	SQLitePath string `yaml:"sqlite_path"`

	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	RedisPassword string `yaml:"redis_password"`

	JoinCacheTTLSeconds int     `yaml:"join_cache_ttl_seconds"`
	UploadMaxMB         int64   `yaml:"upload_max_mb"`
	RateLimitRPS        float64 `yaml:"rate_limit_rps"`
	RateLimitBurst      int     `yaml:"rate_limit_burst"`
	CSVDelimiter        string  `yaml:"csv_delimiter"`
}

// Load builds the configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	overrideString(&cfg.AppEnv, "APP_ENV")
	overrideString(&cfg.HTTPAddr, "HTTP_ADDR")
	overrideString(&cfg.DBDriver, "DB_DRIVER")
	overrideString(&cfg.PGHost, "PG_HOST")
	overrideString(&cfg.PGPort, "PG_PORT")
	overrideString(&cfg.PGUser, "PG_USER")
	overrideString(&cfg.PGDB, "PG_DB")
	overrideString(&cfg.PGPassword, "PG_PASSWORD")
	overrideString(&cfg.SQLitePath, "SQLITE_PATH")
	overrideString(&cfg.RedisHost, "REDIS_HOST")
	overrideString(&cfg.RedisPort, "REDIS_PORT")
	overrideString(&cfg.RedisPassword, "REDIS_PASSWORD")
	overrideString(&cfg.CSVDelimiter, "CSV_DELIMITER")

	if err := overrideInt(&cfg.JoinCacheTTLSeconds, "JOIN_CACHE_TTL_SECONDS"); err != nil {
		return nil, err
	}
	if err := overrideInt(&cfg.RateLimitBurst, "RATE_LIMIT_BURST"); err != nil {
		return nil, err
	}
	if v := os.Getenv("UPLOAD_MAX_MB"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid UPLOAD_MAX_MB %q: %w", v, err)
		}
		cfg.UploadMaxMB = n
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q: %w", v, err)
		}
		cfg.RateLimitRPS = f
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AppEnv == "" {
		c.AppEnv = "development"
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	if c.DBDriver == "" {
		c.DBDriver = "sqlite"
	}
	if c.PGPort == "" {
		c.PGPort = "5432"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "mtrledger.db"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.UploadMaxMB <= 0 {
		c.UploadMaxMB = 32
	}
	if c.RateLimitRPS <= 0 {
		c.RateLimitRPS = 2
	}
	if c.RateLimitBurst <= 0 {
		c.RateLimitBurst = 10
	}
	if c.CSVDelimiter == "" {
		c.CSVDelimiter = ","
	}
}

// PostgresDSN formats the connection string the same way for gorm and sqlx.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDB)
}

// RedisEnabled reports whether a Redis host was configured. Without one the write lock is process-local.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func (c *Config) JoinCacheTTL() time.Duration {
	return time.Duration(c.JoinCacheTTLSeconds) * time.Second
}

func (c *Config) UploadMaxBytes() int64 {
	return c.UploadMaxMB << 20
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}
