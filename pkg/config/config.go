// Package config loads and validates console configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Redis, Search, History, Postgres, Kafka, Logging, Metrics).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level console configuration.
type Config struct {
	Redis    RedisConfig    `yaml:"redis"`
	Search   SearchConfig   `yaml:"search"`
	History  HistoryConfig  `yaml:"history"`
	Postgres PostgresConfig `yaml:"postgres"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Audit    AuditConfig    `yaml:"audit"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// RedisConfig holds connection parameters for the index store.
type RedisConfig struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	PoolSize    int           `yaml:"poolSize"`
	ReadTimeout time.Duration `yaml:"readTimeout"`
}

// SearchConfig controls the bundled search engine.
type SearchConfig struct {
	Limit            int      `yaml:"limit"`
	BucketSize       int      `yaml:"bucketSize"`
	GeohashPrecision uint     `yaml:"geohashPrecision"`
	Autocomplete     bool     `yaml:"autocomplete"`
	Concurrency      int      `yaml:"concurrency"`
	StopWords        []string `yaml:"stopWords"`
}

// HistoryConfig selects where console input history is persisted.
type HistoryConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// PostgresConfig holds PostgreSQL connection parameters for the shared
// history driver.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	AuditTopic string   `yaml:"auditTopic"`
}

// AuditConfig toggles publishing of executed commands.
type AuditConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Timeout          time.Duration `yaml:"timeout"`
	BreakerThreshold int           `yaml:"breakerThreshold"`
	BreakerCooldown  time.Duration `yaml:"breakerCooldown"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

const (
	HistoryDriverBolt     = "bolt"
	HistoryDriverPostgres = "postgres"
)

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with defaults for any missing
// values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the console cannot start with.
func (c *Config) Validate() error {
	switch c.History.Driver {
	case HistoryDriverBolt, HistoryDriverPostgres:
	default:
		return fmt.Errorf("unknown history driver %q", c.History.Driver)
	}
	if c.Search.Limit <= 0 {
		return fmt.Errorf("search limit must be positive, got %d", c.Search.Limit)
	}
	if c.Search.BucketSize <= 0 {
		return fmt.Errorf("search bucket size must be positive, got %d", c.Search.BucketSize)
	}
	if c.Search.GeohashPrecision == 0 || c.Search.GeohashPrecision > 12 {
		return fmt.Errorf("geohash precision must be in [1,12], got %d", c.Search.GeohashPrecision)
	}
	if c.Audit.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("audit enabled but no kafka brokers configured")
	}
	return nil
}

// defaultConfig returns a Config suitable for a local Redis instance.
func defaultConfig() *Config {
	return &Config{
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			DB:          0,
			PoolSize:    4,
			ReadTimeout: 5 * time.Second,
		},
		Search: SearchConfig{
			Limit:            10,
			BucketSize:       100,
			GeohashPrecision: 7,
			Autocomplete:     true,
			Concurrency:      4,
		},
		History: HistoryConfig{
			Driver: HistoryDriverBolt,
			Path:   defaultHistoryPath(),
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "geoconsole",
			User:            "geoconsole",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    2,
			MaxIdleConns:    1,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers:    []string{"localhost:9092"},
			AuditTopic: "geoconsole-audit",
		},
		Audit: AuditConfig{
			Enabled:          false,
			Timeout:          2 * time.Second,
			BreakerThreshold: 3,
			BreakerCooldown:  30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9091,
		},
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".geoconsole_history.db"
	}
	return filepath.Join(home, ".geoconsole_history.db")
}

// applyEnvOverrides reads GC_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GC_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("GC_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("GC_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("GC_SEARCH_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			cfg.Search.Limit = limit
		}
	}
	if v := os.Getenv("GC_HISTORY_DRIVER"); v != "" {
		cfg.History.Driver = v
	}
	if v := os.Getenv("GC_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv("GC_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("GC_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("GC_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("GC_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("GC_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("GC_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("GC_AUDIT_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Audit.Enabled = enabled
		}
	}
	if v := os.Getenv("GC_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GC_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("GC_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
}
