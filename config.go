package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/kylycht/apex/service/exrate"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath = "config.yaml"
	envPrefix         = "APEX"
)

type Config struct {
	HTTPPort  string          `yaml:"http_port" envconfig:"HTTP_PORT"`   // listen address, e.g. ":3000"
	LogLevel  string          `yaml:"log_level" envconfig:"LOG_LEVEL"`   // zerolog level name
	LogFormat string          `yaml:"log_format" envconfig:"LOG_FORMAT"` // "console" or "json"
	RateAPI   RateAPIConfig   `yaml:"rate_api" envconfig:"RATE_API"`     // upstream exchange rate API
	Session   SessionConfig   `yaml:"session" envconfig:"SESSION"`       // widget session housekeeping
	Limit     LimitConfig     `yaml:"limit" envconfig:"LIMIT"`           // inbound request limiting
	CatalogDB CatalogDBConfig `yaml:"catalog_db" envconfig:"CATALOG_DB"` // optional currency table
}

type RateAPIConfig struct {
	BaseURL   string        `yaml:"base_url" envconfig:"BASE_URL"`
	APIKey    string        `yaml:"api_key" envconfig:"API_KEY"`
	Base      string        `yaml:"base" envconfig:"BASE"`
	Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	UserAgent string        `yaml:"user_agent" envconfig:"USER_AGENT"`
}

type SessionConfig struct {
	IdleTTL       time.Duration `yaml:"idle_ttl" envconfig:"IDLE_TTL"`
	SweepInterval time.Duration `yaml:"sweep_interval" envconfig:"SWEEP_INTERVAL"`
}

type LimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND"`
	Burst             int     `yaml:"burst" envconfig:"BURST"`
}

type CatalogDBConfig struct {
	DBUsername string `yaml:"username" envconfig:"USERNAME"`
	DBPassword string `yaml:"password" envconfig:"PASSWORD"`
	DBPort     string `yaml:"port" envconfig:"PORT"`
	DBHost     string `yaml:"host" envconfig:"HOST"`
	DBName     string `yaml:"name" envconfig:"NAME"`
}

// Enabled reports whether a catalog database is configured
func (c CatalogDBConfig) Enabled() bool {
	return c.DBHost != ""
}

// ConnString returns the lib/pq connection string
func (c CatalogDBConfig) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUsername,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

func DefaultConfig() Config {
	return Config{
		HTTPPort:  ":3000",
		LogLevel:  "info",
		LogFormat: "console",
		RateAPI: RateAPIConfig{
			BaseURL:   exrate.DefaultBaseURL,
			Base:      "USD",
			Timeout:   10 * time.Second,
			UserAgent: "apex-widget/1.0",
		},
		Session: SessionConfig{
			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Limit: LimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
		},
		CatalogDB: CatalogDBConfig{
			DBPort: "5432",
		},
	}
}

// LoadConfig layers defaults, the YAML file at path and APEX_* environment
// variables (optionally from .env). A missing file is only an error
// when path was given explicitly.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	// .env is optional
	_ = godotenv.Load()

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}

	return cfg, nil
}

func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 6 {
		return "****"
	}

	return key[:2] + "****" + key[len(key)-4:]
}
