package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	GraphQL       GraphQLConfig       `mapstructure:"graphql"`
	Storage       StorageConfig       `mapstructure:"storage"`
	I18n          I18nConfig          `mapstructure:"i18n"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type GraphQLConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// StorageConfig selects the key-value medium holding the token pair.
// Driver is one of memory, sqlite, postgres, redis.
type StorageConfig struct {
	Driver        string `mapstructure:"driver"`
	Source        string `mapstructure:"source"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	KeyPrefix     string `mapstructure:"key_prefix"`
}

type I18nConfig struct {
	DefaultLanguageID int64         `mapstructure:"default_language_id"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

// DefaultConfig is what the CLI runs with when neither a config file nor env is present.
func DefaultConfig() *Config {
	return &Config{
		App:     AppConfig{Env: "development"},
		GraphQL: GraphQLConfig{Endpoint: "http://localhost:8000/graphql"},
		Storage: StorageConfig{Driver: StorageDriverSQLite, Source: "ontology-session.db"},
		I18n:    I18nConfig{DefaultLanguageID: 2, CacheTTL: 10 * time.Minute},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "warn", Format: "text"},
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultVal
}

// LoadConfigFromEnv reads ONTOLOGY_* variables on top of DefaultConfig.
func LoadConfigFromEnv() *Config {
	d := DefaultConfig()
	return &Config{
		App: AppConfig{Env: getEnv("ONTOLOGY_APP_ENV", d.App.Env)},
		GraphQL: GraphQLConfig{
			Endpoint: getEnv("ONTOLOGY_GRAPHQL_ENDPOINT", d.GraphQL.Endpoint),
			Timeout:  getEnvAsDuration("ONTOLOGY_GRAPHQL_TIMEOUT", d.GraphQL.Timeout),
		},
		Storage: StorageConfig{
			Driver:        getEnv("ONTOLOGY_STORAGE_DRIVER", d.Storage.Driver),
			Source:        getEnv("ONTOLOGY_STORAGE_SOURCE", d.Storage.Source),
			RedisAddr:     getEnv("ONTOLOGY_STORAGE_REDIS_ADDR", d.Storage.RedisAddr),
			RedisPassword: getEnv("ONTOLOGY_STORAGE_REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("ONTOLOGY_STORAGE_REDIS_DB", 0),
			KeyPrefix:     getEnv("ONTOLOGY_STORAGE_KEY_PREFIX", ""),
		},
		I18n: I18nConfig{
			DefaultLanguageID: int64(getEnvAsInt("ONTOLOGY_I18N_DEFAULT_LANGUAGE_ID", int(d.I18n.DefaultLanguageID))),
			CacheTTL:          getEnvAsDuration("ONTOLOGY_I18N_CACHE_TTL", d.I18n.CacheTTL),
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{Enabled: getEnvAsBool("ONTOLOGY_METRICS_ENABLED", false)},
			Logging: LoggingConfig{
				Level:  getEnv("ONTOLOGY_LOG_LEVEL", d.Observability.Logging.Level),
				Format: getEnv("ONTOLOGY_LOG_FORMAT", d.Observability.Logging.Format),
			},
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.GraphQL.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("graphql config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *GraphQLConfig) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %s: %w", c.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint %s must be an absolute http(s) URL", c.Endpoint)
	}
	if c.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case StorageDriverMemory:
		return nil
	case StorageDriverSQLite, StorageDriverPostgres:
		if c.Source == "" {
			return fmt.Errorf("source is required for driver %s", c.Driver)
		}
		return nil
	case StorageDriverRedis:
		if c.RedisAddr == "" {
			return errors.New("redis_addr is required for driver redis")
		}
		return nil
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported level %q", c.Level)
	}
	switch c.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("unsupported format %q", c.Format)
	}
	return nil
}
