package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type StorageConfig struct {
	Backend        string `yaml:"backend"`
	DataDir        string `yaml:"data_dir"`
	SQLitePath     string `yaml:"sqlite_path"`
	DatabaseURL    string `yaml:"database_url"`
	PostgresDriver string `yaml:"postgres_driver"`
}

// RedisConfig enables the read-through cache and the rate limiter when Host
// is set.
type RedisConfig struct {
	Host     string        `yaml:"host"`
	Port     string        `yaml:"port"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type WorkerConfig struct {
	TickInterval     time.Duration `yaml:"tick_interval"`
	AutosaveInterval time.Duration `yaml:"autosave_interval"`
	MetricsInterval  time.Duration `yaml:"metrics_interval"`
}

type Config struct {
	Env       string        `yaml:"env"`
	LogLevel  string        `yaml:"log_level"`
	Port      string        `yaml:"port"`
	Timezone  string        `yaml:"timezone"`
	RateLimit int           `yaml:"rate_limit"`
	Storage   StorageConfig `yaml:"storage"`
	Redis     RedisConfig   `yaml:"redis"`
	Workers   WorkerConfig  `yaml:"workers"`
}

func Default() *Config {
	return &Config{
		Env:       "development",
		LogLevel:  "info",
		Port:      "8080",
		Timezone:  "Local",
		RateLimit: 100,
		Storage: StorageConfig{
			Backend:        "file",
			DataDir:        "data",
			SQLitePath:     "data/mindfulme.db",
			PostgresDriver: "pgx",
		},
		Redis: RedisConfig{
			Port:     "6379",
			CacheTTL: 30 * time.Minute,
		},
		Workers: WorkerConfig{
			TickInterval:     100 * time.Millisecond,
			AutosaveInterval: 5 * time.Minute,
			MetricsInterval:  time.Hour,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE and finally the environment (including a local .env).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Env, "APP_ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Port, "PORT")
	setString(&c.Timezone, "TIMEZONE")

	setString(&c.Storage.Backend, "STORAGE_BACKEND")
	setString(&c.Storage.DataDir, "DATA_DIR")
	setString(&c.Storage.SQLitePath, "SQLITE_PATH")
	setString(&c.Storage.DatabaseURL, "DATABASE_URL")
	setString(&c.Storage.PostgresDriver, "PG_DRIVER")

	setString(&c.Redis.Host, "REDIS_HOST")
	setString(&c.Redis.Port, "REDIS_PORT")
	setString(&c.Redis.Password, "REDIS_PASSWORD")

	var errs []error
	errs = append(errs,
		setInt(&c.RateLimit, "RATE_LIMIT"),
		setInt(&c.Redis.DB, "REDIS_DB"),
		setDuration(&c.Redis.CacheTTL, "CACHE_TTL"),
		setDuration(&c.Workers.TickInterval, "TICK_INTERVAL"),
		setDuration(&c.Workers.AutosaveInterval, "AUTOSAVE_INTERVAL"),
		setDuration(&c.Workers.MetricsInterval, "METRICS_INTERVAL"),
	)
	return errors.Join(errs...)
}

func (c *Config) Validate() error {
	switch c.Env {
	case "development", "staging", "production":
	default:
		return errors.New("APP_ENV must be one of: development, staging, production")
	}

	switch c.Storage.Backend {
	case "memory":
	case "file":
		if c.Storage.DataDir == "" {
			return errors.New("DATA_DIR is required when STORAGE_BACKEND=file")
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
		if c.Storage.PostgresDriver != "pgx" && c.Storage.PostgresDriver != "postgres" {
			return errors.New("PG_DRIVER must be pgx or postgres")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (memory, file, sqlite, postgres)", c.Storage.Backend)
	}

	if c.Workers.TickInterval <= 0 || c.Workers.AutosaveInterval <= 0 || c.Workers.MetricsInterval <= 0 {
		return errors.New("worker intervals must be positive")
	}
	if c.RateLimit < 0 {
		return errors.New("RATE_LIMIT cannot be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the timezone used for calendar days and reminders.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
