package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Origin    OriginConfig    `yaml:"origin"`
	Session   SessionConfig   `yaml:"session"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Static    StaticConfig    `yaml:"static"`
	Mock      MockConfig      `yaml:"mock"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" yaml:"port"`
	Host            string        `envconfig:"HOST" yaml:"host"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout"`
}

// OriginConfig describes the proxied portal and how we talk to it.
type OriginConfig struct {
	BaseURL      string        `envconfig:"ORIGIN_BASE_URL" yaml:"base_url"`
	Timeout      time.Duration `envconfig:"ORIGIN_TIMEOUT" yaml:"timeout"`
	MaxRedirects int           `envconfig:"ORIGIN_MAX_REDIRECTS" yaml:"max_redirects"`
	UserAgent    string        `envconfig:"ORIGIN_USER_AGENT" yaml:"user_agent"`
	RateLimitRPS float64       `envconfig:"ORIGIN_RATE_LIMIT_RPS" yaml:"rate_limit_rps"`
}

// SessionConfig holds session registry configuration.
type SessionConfig struct {
	TTL           time.Duration `envconfig:"SESSION_TTL" yaml:"ttl"`
	SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" yaml:"sweep_interval"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development"`
}

// RateLimitConfig holds inbound rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled"`
}

// StaticConfig controls the client shell file server.
type StaticConfig struct {
	Dir        string   `envconfig:"STATIC_DIR" yaml:"dir"`
	CacheGlobs []string `envconfig:"STATIC_CACHE_GLOBS" yaml:"cache_globs"`
}

// MockConfig toggles the demonstration origin.
type MockConfig struct {
	Enabled bool `envconfig:"MOCK_ORIGIN_ENABLED" yaml:"enabled"`
}

// DefaultUserAgent is a current desktop Chrome string; some ERPs reject unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Load builds configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and finally environment variables.
//
// Defaults live in Default rather than in struct tags so that envconfig only
// touches fields whose variables are actually set.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Origin.BaseURL == "" {
		return fmt.Errorf("origin base url is required")
	}
	if c.Origin.Timeout <= 0 {
		return fmt.Errorf("origin timeout must be positive")
	}
	if c.Origin.MaxRedirects < 0 {
		return fmt.Errorf("origin max redirects cannot be negative")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "3001",
			Host:            "0.0.0.0",
			ShutdownTimeout: 10 * time.Second,
		},
		Origin: OriginConfig{
			BaseURL:      "https://gietuerp.in",
			Timeout:      30 * time.Second,
			MaxRedirects: 10,
			UserAgent:    DefaultUserAgent,
		},
		Session: SessionConfig{
			TTL:           24 * time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			Enabled:           true,
		},
		Static: StaticConfig{
			Dir:        "public",
			CacheGlobs: []string{"**/*.css", "**/*.js", "**/*.png", "**/*.ico", "**/*.woff2"},
		},
		Mock: MockConfig{
			Enabled: true,
		},
	}
}
