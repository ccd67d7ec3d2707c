package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds application configuration loaded from an optional TOML
// file and environment variables. Environment wins over the file.
type Config struct {
	DataDir             string        `toml:"data_dir"`
	Port                string        `toml:"port"`
	CacheBackend        string        `toml:"cache_backend"`
	CachePath           string        `toml:"cache_path"`
	PGURL               string        `toml:"pg_url"`
	SQLitePath          string        `toml:"sqlite_path"`
	SecurityIndexSample int           `toml:"security_index_sample"`
	ExternalTimeout     time.Duration `toml:"-"`
	BatchPacing         time.Duration `toml:"-"`
	QuoteBaseURL        string        `toml:"quote_base_url"`
	GeminiAPIKey        string        `toml:"gemini_api_key"`
	GeminiModel         string        `toml:"gemini_model"`
	LogLevel            string        `toml:"log_level"`

	// duration strings as written in the TOML file, e.g. "5s"
	ExternalTimeoutRaw string `toml:"external_timeout"`
	BatchPacingRaw     string `toml:"batch_pacing"`
}

func defaults() *Config {
	return &Config{
		Port:                "8080",
		CacheBackend:        BackendCSV,
		SecurityIndexSample: 100000,
		ExternalTimeout:     5 * time.Second,
		BatchPacing:         100 * time.Millisecond,
		GeminiModel:         "gemini-2.0-flash",
		LogLevel:            "info",
	}
}

// Load reads configuration. A .env file in the working directory is
// loaded first if present; HOLDINGS_CONFIG names an optional TOML file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("HOLDINGS_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if c.ExternalTimeoutRaw != "" {
		d, err := time.ParseDuration(c.ExternalTimeoutRaw)
		if err != nil {
			return fmt.Errorf("invalid external_timeout in %s: %w", path, err)
		}
		c.ExternalTimeout = d
	}
	if c.BatchPacingRaw != "" {
		d, err := time.ParseDuration(c.BatchPacingRaw)
		if err != nil {
			return fmt.Errorf("invalid batch_pacing in %s: %w", path, err)
		}
		c.BatchPacing = d
	}
	return nil
}

func (c *Config) loadEnv() error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString("DATA_DIR", &c.DataDir)
	setString("PORT", &c.Port)
	setString("CACHE_BACKEND", &c.CacheBackend)
	setString("CACHE_PATH", &c.CachePath)
	setString("PG_URL", &c.PGURL)
	setString("SQLITE_PATH", &c.SQLitePath)
	setString("QUOTE_BASE_URL", &c.QuoteBaseURL)
	setString("GEMINI_API_KEY", &c.GeminiAPIKey)
	setString("GEMINI_MODEL", &c.GeminiModel)
	setString("LOG_LEVEL", &c.LogLevel)

	if v := os.Getenv("SECURITY_INDEX_SAMPLE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SECURITY_INDEX_SAMPLE must be an integer: %w", err)
		}
		c.SecurityIndexSample = n
	}
	for key, dst := range map[string]*time.Duration{
		"EXTERNAL_TIMEOUT": &c.ExternalTimeout,
		"BATCH_PACING":     &c.BatchPacing,
	} {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s must be a duration: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR environment variable is required")
	}
	c.CacheBackend = strings.ToLower(c.CacheBackend)
	switch c.CacheBackend {
	case BackendCSV:
		if c.CachePath == "" {
			c.CachePath = filepath.Join(c.DataDir, "company_ticker.csv")
		}
	case BackendPostgres:
		if c.PGURL == "" {
			return fmt.Errorf("PG_URL environment variable is required for the postgres cache backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			c.SQLitePath = filepath.Join(c.DataDir, "company_ticker.db")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	if c.ExternalTimeout <= 0 {
		return fmt.Errorf("EXTERNAL_TIMEOUT must be positive")
	}
	if c.BatchPacing < 0 {
		return fmt.Errorf("BATCH_PACING must not be negative")
	}
	return nil
}
